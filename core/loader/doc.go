// Package loader provides the feature loading system.
//
// Each HTTP module implements Feature. The Manager keeps them in
// registration order and mounts the enabled ones on the Fiber router.
//
//	mgr := loader.NewManager(log)
//	mgr.Register(selection.NewFeature(svc, log))
//	if err := mgr.LoadAll(app); err != nil {
//	    log.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
