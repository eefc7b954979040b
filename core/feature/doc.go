// Package feature defines the map feature records exchanged with the map
// renderer and derives stable identities for them.
//
// Features carry no intrinsic identity. An Identity is derived from the
// feature's attributes using the layer's configured unique-id property, or a
// fixed list of common identifier names when the layer has none. Features for
// which no identity can be derived are still valid selection targets but can
// never join a multi-select overlay or an identity-tracked edit.
//
// # Usage
//
//	keys := feature.Keys{UniqueID: "parcel_no"}
//	id := feature.IdentityOf(f, keys)
//	if id.IsZero() {
//	    // degrade: not trackable
//	}
package feature
