package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultTimeout bounds a transaction whose context carries no deadline.
const DefaultTimeout = 5 * time.Second

type ctxKey struct{}

type shardKey struct{}

var txKey = ctxKey{}

// WithShardKey names the entity a unit of work touches, so lock-based
// implementations can serialize per entity instead of globally.
func WithShardKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, shardKey{}, key)
}

// ShardKey returns the key set by WithShardKey, or "".
func ShardKey(ctx context.Context) string {
	key, _ := ctx.Value(shardKey{}).(string)
	return key
}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Querier is the subset of *sql.DB and *sql.Tx that stores need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// SQLTx runs callbacks inside a database/sql transaction.
type SQLTx struct {
	db      *sql.DB
	timeout time.Duration
}

// SQLTxOption configures a SQLTx.
type SQLTxOption func(*SQLTx)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) SQLTxOption {
	return func(t *SQLTx) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// NewSQLTx wraps db.
func NewSQLTx(db *sql.DB, opts ...SQLTxOption) *SQLTx {
	t := &SQLTx{db: db, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RunInTx begins a transaction, exposes it through the context passed to fn,
// and commits when fn returns nil. Nested calls reuse the outer transaction.
func (t *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
