package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/dingobingo/assets"
)

func TestOpenMigrated_AppliesEmbeddedSchema(t *testing.T) {
	db, err := OpenMigrated(":memory:", assets.Migrations())
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "games", "user_phrases", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"002_b.sql": {Data: []byte(`INSERT INTO a (id) VALUES (1);`)},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(db, fsys); err != nil {
			t.Fatalf("Migrate pass %d: %v", i+1, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM a`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("second pass re-applied migrations: %d rows", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 recorded migrations, got %d", n)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_bad.sql": {Data: []byte(`CREATE TABLE ok (id INTEGER); CREATE TABLE (;`)},
	}
	if err := Migrate(db, fsys); err == nil {
		t.Fatal("expected error for invalid SQL")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 0 {
		t.Errorf("failed migration was recorded")
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
