// Package ingest feeds verification outcomes published over MQTT by
// recognition devices and manual entry terminals into the Planner.
//
// Devices publish JSON to rollcall/verifications/{roll_call_id}:
//
//	{"occupant_id":"p1","location_id":"a1-01","status":"verified","timestamp":"2026-03-03T14:02:10Z"}
//
// The timestamp is optional; the Planner stamps missing ones on receipt.
package ingest
