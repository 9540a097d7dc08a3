// Package occupancy answers who is expected at a location at a given time.
//
// An occupant with no active schedule entry is assumed to be at home. An
// occupant with any active entry somewhere other than the queried location
// is away. Queries over a non-leaf location cover its whole subtree, and the
// at-home check is made against the queried location itself.
package occupancy
