// Package provider implements the small generic backend framework used by
// the transcription and alignment packages.
//
// Backends are registered by name through factories, instantiated from a
// plain config map, and chosen at runtime either by an explicit default or
// by a Selector that checks availability.
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("whisper", whisper.Factory())
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[transcription.Provider]{})
//	_ = mgr.Initialize("whisper", map[string]any{"url": "http://localhost:8387"})
//	p, _ := mgr.Get(ctx)
package provider
