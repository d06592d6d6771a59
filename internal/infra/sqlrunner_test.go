package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestExtractMarker(t *testing.T) {
	query := "--sql 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0\nselect 1;\n"
	marker, body, err := extractMarker(query)
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "5a82e2ad-7b09-40c5-9d22-2d28db58c0f0" {
		t.Fatalf("marker mismatch: %q", marker)
	}
	if body != "select 1;" {
		t.Fatalf("body mismatch: %q", body)
	}
}

func TestExtractMarkerRejectsUnmarkedQueries(t *testing.T) {
	for _, q := range []string{"select 1;", "--sql not-a-uuid\nselect 1;", "-- 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0\nselect 1;"} {
		if _, _, err := extractMarker(q); err == nil {
			t.Fatalf("expected error for %q", q)
		}
	}
}

func TestSQLRunnerRejectsUnmarkedQueryBeforeHittingDatabase(t *testing.T) {
	r := &SQLRunner{Logger: zerolog.Nop()}
	if _, err := r.Exec(context.Background(), "delete from cases"); !errors.Is(err, errMissingMarker) {
		t.Fatalf("Exec error = %v, want errMissingMarker", err)
	}
	if err := r.QueryRow(context.Background(), "select 1").Scan(); !errors.Is(err, errMissingMarker) {
		t.Fatalf("QueryRow error = %v, want errMissingMarker", err)
	}
}

func TestSQLRunnerInTxWithoutPool(t *testing.T) {
	r := &SQLRunner{Logger: zerolog.Nop()}
	called := false
	err := r.InTx(context.Background(), func(SQLExecutor) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error without pool")
	}
	if called {
		t.Fatal("fn must not run without a transaction")
	}
}
