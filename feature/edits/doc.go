// Package edits journals committed attribute edits.
//
// Journal implements the session committer. Every commit is kept in a
// bounded in-memory history and, when a database is configured, written to
// the edit_commits table through GORM. Persistence failures are logged and
// do not fail the commit; the engine hands commits off and never waits on
// them.
//
// # Endpoints
//
//	GET /edits?layer=parcels&limit=20   most recent first
//	GET /edits/:id
package edits
