package repository

import "time"

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSeed pre-loads the store. Invalid seeds are ignored; call Load to see the error.
func WithSeed(seed Seed) MemoryOption {
	return func(s *MemoryStore) {
		_ = s.Load(seed)
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithQueryTimeout bounds every query issued by the store.
func WithQueryTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.db.SetMaxOpenConns(n)
		}
	}
}
