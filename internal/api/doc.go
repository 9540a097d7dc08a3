// Package api implements the HTTP REST API of the roll-call core.
//
// All routes live under /api/v1 and speak JSON:
//   - locations and expected occupants
//   - walking paths and ordered routes
//   - roll-call generation, persistence and verification outcomes
//   - status treemaps for visualisation
//
// Errors are returned as {"status","code","message"} with the HTTP status
// derived from the domain error: invalid input is 400, unknown ids are 404,
// selections without cells are 422 and storage outages are 503.
//
// The server follows the same lifecycle as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
