// Package replay drives an engine session from a YAML script.
//
// A script is a list of steps, each naming exactly one action: a snapshot
// from the renderer, a user click, select-all, clear, unselect, or an edit
// operation. Run applies the steps in order against a session with a
// recording map view and returns a summary of the reconciled state after
// every step. It is used to reproduce selection bugs reported from the field
// without a renderer.
//
//	steps:
//	  - snapshot:
//	      version: 1
//	      features:
//	        - {layerId: parcels, properties: {id: "1", status: A}}
//	  - click: {feature: {layerId: parcels, properties: {id: "1"}}, modifier: true}
//	  - begin: true
//	  - set: {field: status, value: B}
//	  - commit: true
package replay
