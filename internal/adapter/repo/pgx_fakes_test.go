package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rescue/internal/infra"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

type sliceRows struct {
	testRowsBase
	rows [][]any
	idx  int
}

func (r *sliceRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return assign(r.rows[r.idx-1], dest)
}

func (r *sliceRows) Err() error { return nil }

func (r *sliceRows) Close() {}

// assign copies vals into the scan destinations by type.
func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan arity: got %d dest, have %d values", len(dest), len(vals))
	}
	for i, v := range vals {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int64:
			*d = v.(int64)
		case *[]byte:
			*d = v.([]byte)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			if v == nil {
				*d = nil
			} else {
				t := v.(time.Time)
				*d = &t
			}
		default:
			return fmt.Errorf("unsupported scan dest %T", dest[i])
		}
	}
	return nil
}

type call struct {
	query string
	args  []any
}

// fakeSQL serves canned rows keyed by query text and records every call.
type fakeSQL struct {
	rowsByQuery map[string][][]any
	errByQuery  map[string]error
	tagByQuery  map[string]pgconn.CommandTag
	calls       []call
	txCount     int
}

func newFakeSQL() *fakeSQL {
	return &fakeSQL{
		rowsByQuery: map[string][][]any{},
		errByQuery:  map[string]error{},
		tagByQuery:  map[string]pgconn.CommandTag{},
	}
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if err := f.errByQuery[query]; err != nil {
		return pgconn.CommandTag{}, err
	}
	return f.tagByQuery[query], nil
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args})
	if err := f.errByQuery[query]; err != nil {
		return simpleRow{scan: func(...any) error { return err }}
	}
	rows := f.rowsByQuery[query]
	if len(rows) == 0 {
		return simpleRow{}
	}
	return simpleRow{scan: func(dest ...any) error { return assign(rows[0], dest) }}
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if err := f.errByQuery[query]; err != nil {
		return nil, err
	}
	return &sliceRows{rows: f.rowsByQuery[query]}, nil
}

func (f *fakeSQL) InTx(_ context.Context, fn func(tx infra.SQLExecutor) error) error {
	f.txCount++
	return fn(f)
}

func (f *fakeSQL) called(query string) bool {
	for _, c := range f.calls {
		if c.query == query {
			return true
		}
	}
	return false
}

var _ infra.SQLTransactor = (*fakeSQL)(nil)
