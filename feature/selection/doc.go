// Package selection exposes the reconciled selection and edit state to
// display components over HTTP.
//
// Service owns one engine session and serialises every call through a
// mutex, including snapshot deliveries from the map view. Handlers return
// the full State after every mutation so a component can re-render from a
// single response.
//
// # Endpoints
//
//	GET    /selection
//	POST   /selection/click              {"feature": {...}, "modifier": true, "x": 1, "y": 2}
//	POST   /selection/select-all         {"layerId": "parcels"}
//	POST   /selection/clear
//	POST   /selection/unselect           {"feature": {...}}
//	POST   /selection/flash              {"feature": {...}}
//	POST   /selection/zoom               {"feature": {...}}  (empty body zooms to the selection)
//	POST   /selection/context-menu       {"feature": {...}, "x": 1, "y": 2}
//	DELETE /selection/context-menu
//	POST   /layers/:id/visibility        {"visible": false}
//	POST   /edit                         begin an edit for the current mode
//	PUT    /edit/fields/:name            {"value": ...}
//	DELETE /edit/fields/:name            reset one field
//	POST   /edit/reset
//	POST   /edit/commit
//	DELETE /edit                         discard the buffer
//	GET    /policies
//	POST   /policies/reload
package selection
