// Package edit implements the in-memory attribute edit buffers.
//
// Single tracks one feature: originals are captured once and every field
// whose current value differs from its original is dirty. Multi tracks a
// batch: per-field common values are aggregated once at creation and only
// explicit writes are recorded, so any write makes the buffer dirty.
//
// Validation messages are owned by the caller. Buffers only store and expose
// them; IsValid reports whether the message map is empty.
package edit
