package config

import "sync/atomic"

// Holder provides lock-free access to the active configuration. Handlers
// read the current snapshot on each request, so a Swap from the watcher
// takes effect without coordinating with in-flight work.
type Holder struct {
	current atomic.Pointer[Config]
}

// NewHolder creates a holder seeded with the given configuration.
func NewHolder(cfg *Config) *Holder {
	h := &Holder{}
	h.current.Store(cfg)
	return h
}

// Current returns the active configuration snapshot. The returned value
// must be treated as read-only.
func (h *Holder) Current() *Config {
	return h.current.Load()
}

// Swap replaces the active configuration and returns the previous one.
func (h *Holder) Swap(cfg *Config) *Config {
	return h.current.Swap(cfg)
}
