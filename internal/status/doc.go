// Package status computes roll-call progress for visualisation.
//
// Every leaf location on a route gets a status at a query time:
//
//	grey   not on any supplied route
//	amber  on a route and not yet confirmed
//	green  arrival estimate has passed and every outcome so far is a success
//	red    at least one occupant was not found or was in the wrong place
//
// Statuses fold upward through the location hierarchy with Aggregate, and
// BuildTreemap returns the folded tree with occupant counts. Nothing is
// stored; each query reads the hierarchy, schedule and outcomes afresh.
//
// Broadcaster republishes the tree for a roll call over MQTT whenever the
// Planner reports a new outcome. History writes the per-status leaf counts
// of the same tree to a time-series store.
package status
