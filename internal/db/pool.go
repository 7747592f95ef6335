package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrPoolExhausted means no connection became free before the acquire timeout.
var ErrPoolExhausted = errors.New("database connection unavailable")

// Pool hands out one dedicated connection per unit of work.
type Pool struct {
	db             *gorm.DB
	acquireTimeout time.Duration
}

func NewPool(db *gorm.DB, acquireTimeout time.Duration) *Pool {
	return &Pool{db: db, acquireTimeout: acquireTimeout}
}

// DB is the pool-backed handle, for work that does not need a pinned connection.
func (p *Pool) DB() *gorm.DB {
	return p.db
}

// Acquire checks a connection out of the pool and returns a gorm handle bound
// to it. The caller must call release exactly once, on every path.
//
// Only the checkout is bounded by the acquire timeout; statements issued on the
// returned handle use ctx.
func (p *Pool) Acquire(ctx context.Context) (*gorm.DB, func(), error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, nil, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := sqlDB.Conn(acquireCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	}

	tx := p.db.Session(&gorm.Session{Context: ctx})
	tx.Statement.ConnPool = conn

	release := func() {
		_ = conn.Close()
	}
	return tx, release, nil
}

// Ping checks that a connection can be acquired and answers.
func (p *Pool) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes every connection. Call it once, after the server has drained.
func (p *Pool) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type connKey struct{}

// WithConn stores a connection-bound handle in ctx.
func WithConn(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, connKey{}, tx)
}

// Conn returns the handle stored by WithConn, or fallback when there is none.
// Either way the result carries ctx.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(connKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
