package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"gitlab.com/yelinaung/expense-manager/internal/logger"
)

// Provider owns the single storage handle of the process. It is created by
// the composition root and handed to whatever needs the database; the
// handle itself is opened lazily on first use.
type Provider struct {
	path string
	opts MigrationOptions

	mu     sync.Mutex
	db     atomic.Pointer[sql.DB]
	closed bool
}

// NewProvider creates a Provider for the database file at path.
func NewProvider(path string, opts MigrationOptions) *Provider {
	return &Provider{path: path, opts: opts}
}

// DB returns the shared handle, opening and migrating the database on the
// first call. Concurrent first callers all receive the same handle.
func (p *Provider) DB(ctx context.Context) (*sql.DB, error) {
	if db := p.db.Load(); db != nil {
		return db, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if db := p.db.Load(); db != nil {
		return db, nil
	}
	if p.closed {
		return nil, fmt.Errorf("database provider is closed")
	}

	db, err := Open(ctx, p.path, p.opts)
	if err != nil {
		return nil, err
	}
	p.db.Store(db)

	logger.Log.Info().Str("path", p.path).Msg("Database opened")
	return db, nil
}

// Close releases the handle if it was opened. Later calls to DB fail.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	db := p.db.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}
