package slugkit

import "log/slog"

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the manager's structured logger.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithLookupCache caches slug-to-entity resolutions. Entries are invalidated
// whenever the owning entity's slug changes or the entity is deleted.
func WithLookupCache(c LookupCache) Option {
	return func(m *Manager) {
		m.cache = c
	}
}
