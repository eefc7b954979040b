// Package mapbridge connects a remote map renderer to the engine over HTTP.
//
// The renderer pushes selection snapshots with POST /bridge/snapshot and
// polls GET /bridge/requests for the flash, zoom, unselect, clear and
// visibility requests the engine issued since the last poll. The Bridge is
// the engine's map view: it fans snapshots out to subscribers and queues
// requests in a bounded buffer that drops the oldest entry when full.
//
// # Endpoints
//
//	POST /bridge/snapshot   {"version": 3, "features": [...]}
//	GET  /bridge/requests   drains queued requests
//	GET  /bridge/status     subscriber count, queue depth, last version
package mapbridge
