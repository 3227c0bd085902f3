package ingest

import (
	"testing"

	"github.com/manigandand/pathivu/internal/config"
	"github.com/manigandand/pathivu/internal/metrics"
	"github.com/manigandand/pathivu/internal/segment"
	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

func newTestIngestor(t *testing.T, maxBytes int) (*Ingestor, *pebblestore.DB, string) {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	dataDir := t.TempDir()
	return New(db, dataDir, maxBytes, logpkg.NewNop(), metrics.New()), db, dataDir
}

func segmentIDs(t *testing.T, db *pebblestore.DB, partition string) []uint64 {
	t.Helper()
	val, found, err := db.Get(segment.RegistryKey(partition))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if !found {
		return nil
	}
	ids, err := segment.DecodePostingList(val)
	if err != nil {
		t.Fatalf("decode registry: %v", err)
	}
	return ids
}

func TestFlushSealsOpenSegment(t *testing.T) {
	in, db, _ := newTestIngestor(t, 0)

	if err := in.Append("default", 1, []byte("hello world")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := segmentIDs(t, db, "default"); len(got) != 0 {
		t.Fatalf("segment sealed before flush: %v", got)
	}

	if err := in.Flush("default"); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := segmentIDs(t, db, "default"); len(got) != 1 {
		t.Fatalf("want 1 sealed segment, got %v", got)
	}
}

func TestFlushEmptyPartitionIsNoop(t *testing.T) {
	in, db, _ := newTestIngestor(t, 0)
	if err := in.Flush("nothing"); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := segmentIDs(t, db, "nothing"); len(got) != 0 {
		t.Fatalf("phantom segment: %v", got)
	}
}

func TestSizeThresholdSeals(t *testing.T) {
	in, db, _ := newTestIngestor(t, 64)

	line := []byte("0123456789012345678901234567890123456789012345678901234567890123")
	if err := in.Append("default", 1, line); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := segmentIDs(t, db, "default"); len(got) != 1 {
		t.Fatalf("oversized segment not sealed: %v", got)
	}
}

func TestPartitionsSealIndependently(t *testing.T) {
	in, db, _ := newTestIngestor(t, 0)

	_ = in.Append("a", 1, []byte("one"))
	_ = in.Append("b", 1, []byte("two"))
	if err := in.Flush("a"); err != nil {
		t.Fatalf("flush a: %v", err)
	}
	if got := segmentIDs(t, db, "a"); len(got) != 1 {
		t.Fatalf("partition a: %v", got)
	}
	if got := segmentIDs(t, db, "b"); len(got) != 0 {
		t.Fatalf("partition b sealed too early: %v", got)
	}

	if err := in.FlushAll(); err != nil {
		t.Fatalf("flush all: %v", err)
	}
	if got := segmentIDs(t, db, "b"); len(got) != 1 {
		t.Fatalf("partition b after flush all: %v", got)
	}
}

func TestSealedSegmentsQueryable(t *testing.T) {
	in, db, dataDir := newTestIngestor(t, 0)

	_ = in.Append("default", 100, []byte("error: disk full"))
	_ = in.Append("default", 200, []byte("request ok"))
	if err := in.Flush("default"); err != nil {
		t.Fatalf("flush: %v", err)
	}

	ids := segmentIDs(t, db, "default")
	if len(ids) != 1 {
		t.Fatalf("want 1 segment, got %v", ids)
	}
	dir := config.SegmentsDir(dataDir, "default")
	it, err := segment.NewIterator(db, dir, "default", ids[0], segment.Query{Text: "eror"})
	if err != nil {
		t.Fatalf("new iterator: %v", err)
	}
	if it.Len() != 1 {
		t.Fatalf("fuzzy search over sealed segment: want 1 entry, got %d", it.Len())
	}
}
