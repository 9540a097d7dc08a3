package location

// Index is a read-only view of the hierarchy built from a flat location list.
// It is rebuilt per query and never mutated after construction.
type Index struct {
	byID     map[string]*Location
	children map[string][]string
	order    []string
}

// NewIndex builds an Index. Children keep the order they appear in locs.
func NewIndex(locs []Location) *Index {
	idx := &Index{
		byID:     make(map[string]*Location, len(locs)),
		children: make(map[string][]string),
		order:    make([]string, 0, len(locs)),
	}
	for i := range locs {
		l := &locs[i]
		if _, dup := idx.byID[l.ID]; dup {
			continue
		}
		idx.byID[l.ID] = l
		idx.order = append(idx.order, l.ID)
		if p := l.Parent(); p != "" {
			idx.children[p] = append(idx.children[p], l.ID)
		}
	}
	return idx
}

// Get returns the location with id, or nil.
func (x *Index) Get(id string) *Location {
	return x.byID[id]
}

// Children returns the direct children of id.
func (x *Index) Children(id string) []Location {
	ids := x.children[id]
	out := make([]Location, 0, len(ids))
	for _, cid := range ids {
		out = append(out, *x.byID[cid])
	}
	return out
}

// HasChildren reports whether id has at least one child.
func (x *Index) HasChildren(id string) bool {
	return len(x.children[id]) > 0
}

// Roots returns every parentless location, plus any whose parent is not
// indexed, in input order.
func (x *Index) Roots() []Location {
	var out []Location
	for _, id := range x.order {
		l := x.byID[id]
		if l.IsRoot() || x.byID[l.Parent()] == nil {
			out = append(out, *l)
		}
	}
	return out
}

// SubtreeIDs returns id followed by all of its descendants in breadth-first
// order. It returns nil when id is unknown.
func (x *Index) SubtreeIDs(id string) []string {
	if x.byID[id] == nil {
		return nil
	}
	seen := map[string]bool{id: true}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, cid := range x.children[out[i]] {
			// A corrupted parent chain must not loop forever.
			if seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
		}
	}
	return out
}

// Descendants returns every location below id, breadth-first, excluding id
// itself, optionally filtered to the given types.
func (x *Index) Descendants(id string, types ...Type) []Location {
	ids := x.SubtreeIDs(id)
	if len(ids) < 2 {
		return nil
	}
	var out []Location
	for _, did := range ids[1:] {
		l := x.byID[did]
		if HasType(l.Type, types) {
			out = append(out, *l)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first.
func (x *Index) Ancestors(id string) []Location {
	var out []Location
	seen := map[string]bool{id: true}
	l := x.byID[id]
	for l != nil {
		p := l.Parent()
		if p == "" || seen[p] {
			break
		}
		seen[p] = true
		l = x.byID[p]
		if l != nil {
			out = append(out, *l)
		}
	}
	return out
}
