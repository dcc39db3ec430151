package backend

import (
	"sync"
)

// PlatformFactory creates a new platform instance.
type PlatformFactory func() Platform

// registry holds registered platforms.
var (
	registryMu sync.RWMutex
	platforms  = make(map[string]PlatformFactory)
	// Priority order for default selection (first registered name wins).
	// canvas is the in-place mutable model and the usual default;
	// quartz is the snapshot-replacing model.
	platformPriority = []string{"canvas", "quartz"}
)

// Register registers a platform factory under the given name.
// This is typically called from init() functions in backend packages.
// Registering an already-registered name replaces the previous factory.
func Register(name string, factory PlatformFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	platforms[name] = factory
}

// Unregister removes a platform from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(platforms, name)
}

// Available returns the registered platform names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a platform with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := platforms[name]
	return ok
}

// Get returns a platform instance by name, or nil if not registered.
func Get(name string) Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := platforms[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available platform based on priority.
// Returns nil if no platforms are registered.
func Default() Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range platformPriority {
		if factory, ok := platforms[name]; ok {
			if p := factory(); p != nil {
				return p
			}
		}
	}

	// Fallback: return any registered platform.
	for _, factory := range platforms {
		if p := factory(); p != nil {
			return p
		}
	}

	return nil
}

// MustDefault returns the default platform or panics.
func MustDefault() Platform {
	p := Default()
	if p == nil {
		panic("backend: no platform available")
	}
	return p
}
