package segment

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
)

func openTestStore(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBuilderOffsetsAndSize(t *testing.T) {
	b := NewBuilder(t.TempDir(), "p", 1)
	off1 := b.Append(1, []byte("hello"))
	off2 := b.Append(2, []byte("world!"))

	if off1 != 0 {
		t.Fatalf("first offset should be 0, got %d", off1)
	}
	// 8B length + 8B ts + 5B line
	if off2 != 21 {
		t.Fatalf("second offset should be 21, got %d", off2)
	}
	if b.Count() != 2 {
		t.Fatalf("count: %d", b.Count())
	}
	if b.Size() != 21+8+8+6 {
		t.Fatalf("size: %d", b.Size())
	}
}

func TestSealWritesArtifacts(t *testing.T) {
	db := openTestStore(t)
	dir := t.TempDir()

	b := NewBuilder(dir, "p", 7)
	b.Append(10, []byte("alpha beta"))
	b.Append(20, []byte("beta gamma"))
	if err := b.Seal(db); err != nil {
		t.Fatalf("seal: %v", err)
	}

	for _, name := range []string{FileName(7), IndexFileName(7)} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	// The catch-all posting list covers both entries.
	val, found, err := db.Get(PostingKey("p", 7, PostingListAll))
	if err != nil || !found {
		t.Fatalf("all posting list: found=%v err=%v", found, err)
	}
	offsets, err := DecodePostingList(val)
	if err != nil {
		t.Fatalf("decode all list: %v", err)
	}
	if len(offsets) != 2 || offsets[0] != 0 {
		t.Fatalf("unexpected all offsets %v", offsets)
	}

	// "beta" indexes both entries, "alpha" only the first.
	val, found, _ = db.Get(PostingKey("p", 7, "beta"))
	if !found {
		t.Fatalf("missing beta posting list")
	}
	beta, _ := DecodePostingList(val)
	if !reflect.DeepEqual(beta, offsets) {
		t.Fatalf("beta should cover both entries: %v vs %v", beta, offsets)
	}
	val, found, _ = db.Get(PostingKey("p", 7, "alpha"))
	if !found {
		t.Fatalf("missing alpha posting list")
	}
	alpha, _ := DecodePostingList(val)
	if len(alpha) != 1 || alpha[0] != 0 {
		t.Fatalf("alpha offsets: %v", alpha)
	}
}

func TestSealUpdatesRegistry(t *testing.T) {
	db := openTestStore(t)
	dir := t.TempDir()

	for _, id := range []uint64{3, 5} {
		b := NewBuilder(dir, "p", id)
		b.Append(1, []byte("x"))
		if err := b.Seal(db); err != nil {
			t.Fatalf("seal %d: %v", id, err)
		}
	}

	val, found, err := db.Get(RegistryKey("p"))
	if err != nil || !found {
		t.Fatalf("registry: found=%v err=%v", found, err)
	}
	ids, err := DecodePostingList(val)
	if err != nil {
		t.Fatalf("decode registry: %v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{3, 5}) {
		t.Fatalf("registry ids %v", ids)
	}
}

func TestSealedSegmentRoundTrip(t *testing.T) {
	db := openTestStore(t)
	dir := t.TempDir()

	b := NewBuilder(dir, "p", 1)
	want := []testEntry{
		{ts: 1, line: "GET /healthz 200"},
		{ts: 2, line: "GET /v1/query 200"},
		{ts: 3, line: "POST /v1/logs 429"},
	}
	for _, e := range want {
		b.Append(e.ts, []byte(e.line))
	}
	if err := b.Seal(db); err != nil {
		t.Fatalf("seal: %v", err)
	}

	it, err := NewIterator(db, dir, "p", 1, Query{})
	if err != nil {
		t.Fatalf("new iterator: %v", err)
	}
	got := drain(it)
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d", len(want), len(got))
	}
	for i, e := range got {
		if e.Ts != want[i].ts || string(e.Line) != want[i].line {
			t.Fatalf("entry %d mismatch: %d %q", i, e.Ts, e.Line)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize([]byte(`level=error msg="disk full" code:507`))
	want := []string{"level", "error", "msg", "disk", "full", "code", "507"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(Tokenize([]byte(" \t--- "))) != 0 {
		t.Fatalf("separator-only line should produce no terms")
	}
}
