package pebblestore

import "testing"

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetDistinguishesAbsentFromEmpty(t *testing.T) {
	db := openTestDB(t)

	if _, found, err := db.Get([]byte("missing")); err != nil || found {
		t.Fatalf("want absent, got found=%v err=%v", found, err)
	}

	if err := db.Set([]byte("empty"), nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found, err := db.Get([]byte("empty"))
	if err != nil || !found {
		t.Fatalf("want present, got found=%v err=%v", found, err)
	}
	if len(val) != 0 {
		t.Fatalf("want empty value, got %q", val)
	}
}

func TestBatchCommit(t *testing.T) {
	db := openTestDB(t)

	b := db.NewBatch()
	defer b.Close()
	for _, k := range []string{"a", "b", "c"} {
		if err := b.Set([]byte(k), []byte("v-"+k), nil); err != nil {
			t.Fatalf("batch set: %v", err)
		}
	}
	if err := db.CommitBatch(t.Context(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}

	val, found, err := db.Get([]byte("b"))
	if err != nil || !found || string(val) != "v-b" {
		t.Fatalf("unexpected get after batch: %q found=%v err=%v", val, found, err)
	}
}

func TestParseFsyncMode(t *testing.T) {
	if m, err := ParseFsyncMode("interval"); err != nil || m != FsyncModeInterval {
		t.Fatalf("interval: %v %v", m, err)
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("want error for invalid mode")
	}
}
