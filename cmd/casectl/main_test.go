package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"rescue/internal/adapter/boltstore"
	"rescue/internal/cases"
	"rescue/internal/domain"
)

// seedBolt writes one case to a fresh bolt file and points the environment at it.
func seedBolt(t *testing.T) (caseID, storagePath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rescue.db")
	storagePath = filepath.Join(dir, "blobs")

	store, err := boltstore.Open(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	caseID, err = store.CreateCase(context.Background(), &domain.Case{
		AnimalType: "cow",
		Title:      "Cow with leg wound",
		Location:   "Delhi",
		Severity:   domain.SeverityMild,
		Goal:       1500,
		ImageURL:   "http://localhost:8080/static/cases/1_cow.png",
		UserID:     "u1",
	})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close bolt: %v", err)
	}

	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", dbPath)
	t.Setenv("STORAGE_PATH", storagePath)
	t.Setenv("STORAGE_BASE_URL", "http://localhost:8080/static")
	t.Setenv("APP_ENV", "test")
	return caseID, storagePath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCasesList(t *testing.T) {
	id, _ := seedBolt(t)

	out, err := run(t, "cases", "list")
	if err != nil {
		t.Fatalf("cases list: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "0/1500") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	out, err = run(t, "cases", "list", "--json")
	if err != nil {
		t.Fatalf("cases list --json: %v", err)
	}
	casesJSON = false
	var list []domain.Case
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("list = %+v", list)
	}
}

func TestCasesShowUnknown(t *testing.T) {
	seedBolt(t)
	if _, err := run(t, "cases", "show", "nope"); err == nil {
		t.Fatal("expected an error for an unknown case")
	}
}

func TestSweepCommand(t *testing.T) {
	_, storagePath := seedBolt(t)

	orphan := cases.ImageKey(time.Now().Add(-24*time.Hour), "orphan.png")
	referenced := "cases/1_cow.png"
	for _, key := range []string{orphan, referenced} {
		p := filepath.Join(storagePath, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := run(t, "sweep", "--dry-run")
	if err != nil {
		t.Fatalf("sweep --dry-run: %v", err)
	}
	if !strings.Contains(out, orphan) || !strings.Contains(out, "deleted=0") {
		t.Fatalf("dry run output:\n%s", out)
	}

	out, err = run(t, "sweep", "--dry-run=false")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "deleted=1") {
		t.Fatalf("sweep output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(storagePath, filepath.FromSlash(referenced))); err != nil {
		t.Fatalf("referenced image removed: %v", err)
	}
}

func TestMigrateRejectsNonPostgres(t *testing.T) {
	seedBolt(t)
	if _, err := run(t, "migrate", "status"); err == nil {
		t.Fatal("expected migrate to refuse the bolt driver")
	}
}
