package storage

import "sync"

var global = sync.OnceValue(func() *Store {
	return New(nil)
})

// Global returns the process-wide Store, created on first use.
// Prefer passing a *Store explicitly; Global exists for callers without one
func Global() *Store {
	return global()
}
