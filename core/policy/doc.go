// Package policy holds the per-layer edit policies read from layer
// configuration and answers the editability questions asked by the session.
//
// # Components
//
//   - LayerEditPolicy / FieldConfig: the configuration model, decoded from YAML
//     or JSON documents, or loaded from the layer_policies and layer_fields tables.
//   - Resolver: picks the representative layer of the active selection and
//     reports lock state, editable fields and excluded properties. Unknown
//     layers are always locked.
//   - Source: loaders for a local file, an object in S3/MinIO storage, or the database.
//   - Registry: holds the current Set and reloads it from a Source, collapsing
//     concurrent reloads into one.
//
// # Usage
//
//	reg := policy.NewRegistry(policy.NewFileSource("layers.yaml"), logger)
//	if _, err := reg.Reload(ctx); err != nil {
//	    return err
//	}
//	r := policy.NewResolver(reg.Current(), multi, clicked)
//	if r.IsLocked() {
//	    return
//	}
package policy
