// Package loader registers the features served over HTTP.
//
// Each feature implements Feature; the Manager loads the enabled ones onto a
// fiber router in registration order.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(baseline.NewFeature(engine, resolver, cfg.Track, logger))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
