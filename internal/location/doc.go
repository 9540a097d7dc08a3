// Package location provides the facility hierarchy and its walking graph.
//
// Locations form a forest: a prison contains wings, wings contain landings,
// landings contain cells, and amenities (healthcare, gym, visits) hang off
// any level. Parents are weak references by id. Descendant queries build
// an [Index] (id to node, parent id to child ids) and walk it breadth-first,
// so no owning pointers or back-references exist.
//
// Connections are directed walking edges between locations. A connection
// flagged bidirectional implies the reverse traversal at the same cost; the
// routing package materialises that reverse edge, this package stores one row.
//
// Two Reader implementations are provided: MemoryStore for fixtures and
// SQLiteRepository for the deployed core.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + connection pooling). MemoryStore guards its maps with
// a RWMutex.
package location
