// Package rollcall plans headcounts and stores their outcomes.
//
// Generator expands a mixed selection of locations (prisons, wings,
// landings, cells) into a deduplicated set of leaf cells, asks the
// occupancy resolver how many people each cell should hold, and asks the
// router for a visiting order. Planner persists a generated route as a
// RollCall with one pending RouteStop per cell and records verification
// outcomes against it.
//
// Verification outcomes are produced elsewhere (recognition or manual
// entry); this package only validates and stores them.
package rollcall
