package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"gig-market/internal/config"
	"gig-market/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Pool is the process-wide connection pool. The underlying pgxpool is
// created on first use; a failed attempt is retried by the next call.
type Pool struct {
	cfg config.DatabaseConfig

	mu    sync.Mutex
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func New(cfg config.DatabaseConfig) *Pool {
	return &Pool{cfg: cfg}
}

// Connect creates the pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	p := New(cfg)
	if err := p.Ping(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(cfg.DBHost),
		strings.TrimSpace(cfg.DBPort),
		strings.TrimSpace(cfg.DBUser),
		cfg.DBPassword,
		strings.TrimSpace(cfg.DBName),
		strings.TrimSpace(cfg.DBSSLMode),
	)
}

func (p *Pool) get(ctx context.Context) (*pgxpool.Pool, error) {
	if p == nil {
		return nil, fmt.Errorf("nil db")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}

	pcfg, err := pgxpool.ParseConfig(DSN(p.cfg))
	if err != nil {
		return nil, err
	}

	if p.cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = p.cfg.ConnectTimeout
	}
	pcfg.MaxConns = config.DefaultPoolMaxConns
	if p.cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = p.cfg.PoolMaxConns
	}
	if p.cfg.PoolMinConns > 0 {
		pcfg.MinConns = p.cfg.PoolMinConns
	}
	if p.cfg.PoolMaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = p.cfg.PoolMaxConnLifetime
	}
	if p.cfg.PoolMaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = p.cfg.PoolMaxConnIdleTime
	}
	if p.cfg.PoolHealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = p.cfg.PoolHealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	p.pool = pool
	p.sqlDB = stdlib.OpenDBFromPool(pool)
	return pool, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	pool, err := p.get(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sqlDB != nil {
		_ = p.sqlDB.Close()
		p.sqlDB = nil
	}
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

func (p *Pool) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	pool, err := p.get(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := pool.Exec(ctx, query, args...)
	return tag.RowsAffected(), err
}

func (p *Pool) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	pool, err := p.get(ctx)
	if err != nil {
		return nil, err
	}
	r, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows: r}, nil
}

func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	pool, err := p.get(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, query, args...)
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	pool, err := p.get(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{tx: tx}, nil
}

func (p *Pool) SQLDB() *sql.DB {
	if _, err := p.get(context.Background()); err != nil {
		return nil
	}
	return p.sqlDB
}

type pgxTx struct {
	tx pgx.Tx
}

func (t pgxTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return commandTag(tag).RowsAffected(), nil
}

func (t pgxTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows: r}, nil
}

func (t pgxTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.tx.QueryRow(ctx, query, args...)
}

func (t pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Close() {
	r.rows.Close()
}

func (r pgxRows) Next() bool {
	return r.rows.Next()
}

func (r pgxRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r pgxRows) Err() error {
	return r.rows.Err()
}

type errRow struct {
	err error
}

func (r errRow) Scan(_ ...any) error {
	return r.err
}

type commandTag pgconn.CommandTag

func (t commandTag) RowsAffected() int64 {
	return pgconn.CommandTag(t).RowsAffected()
}
