package tenantdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface handed out to repositories. *pgxpool.Pool
// satisfies it directly; schema-strategy tenants get a scoped wrapper.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// txBeginner is the slice of *pgxpool.Pool the schema handle needs.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// schemaHandle narrows a shared pool to one tenant schema. Every call runs
// in its own transaction with `SET LOCAL search_path`, so the scope dies
// with the transaction on every exit path and the connection goes back to
// the pool clean for unrelated work.
type schemaHandle struct {
	pool   txBeginner
	schema string
}

// NewSchemaHandle returns a DB whose queries are scoped to schema on the
// given shared pool.
func NewSchemaHandle(pool txBeginner, schema string) DB {
	return &schemaHandle{pool: pool, schema: schema}
}

func (h *schemaHandle) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	scope := "SET LOCAL search_path TO " + pgx.Identifier{h.schema}.Sanitize() + ", public"
	if _, err := tx.Exec(ctx, scope); err != nil {
		_ = tx.Rollback(ctx)
		return nil, Classify(err)
	}
	return tx, nil
}

func (h *schemaHandle) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	tx, err := h.begin(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return pgconn.CommandTag{}, Classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return pgconn.CommandTag{}, Classify(err)
	}
	return tag, nil
}

func (h *schemaHandle) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	tx, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, Classify(err)
	}
	return &scopedRows{Rows: rows, tx: tx, ctx: ctx}, nil
}

func (h *schemaHandle) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	tx, err := h.begin(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &scopedRow{row: tx.QueryRow(ctx, sql, args...), tx: tx, ctx: ctx}
}

// scopedRows keeps the scoping transaction open until the caller is done
// iterating, then commits it on Close.
type scopedRows struct {
	pgx.Rows
	tx   pgx.Tx
	ctx  context.Context
	done bool
}

func (r *scopedRows) Close() {
	r.Rows.Close()
	if r.done {
		return
	}
	r.done = true
	if r.Rows.Err() != nil {
		_ = r.tx.Rollback(r.ctx)
		return
	}
	_ = r.tx.Commit(r.ctx)
}

// scopedRow commits the scoping transaction once the single row is read.
type scopedRow struct {
	row pgx.Row
	tx  pgx.Tx
	ctx context.Context
}

func (r *scopedRow) Scan(dest ...interface{}) error {
	if err := r.row.Scan(dest...); err != nil {
		_ = r.tx.Rollback(r.ctx)
		return Classify(err)
	}
	if err := r.tx.Commit(r.ctx); err != nil {
		return Classify(err)
	}
	return nil
}

// errRow satisfies pgx.Row for a query that failed before running.
type errRow struct{ err error }

func (r errRow) Scan(...interface{}) error { return r.err }
