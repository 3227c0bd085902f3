package ingest

import (
	"sync"

	"github.com/manigandand/pathivu/internal/config"
	"github.com/manigandand/pathivu/internal/metrics"
	"github.com/manigandand/pathivu/internal/segment"
	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
	"github.com/manigandand/pathivu/pkg/id"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

// Ingestor owns the write path: one open segment builder per partition,
// sealed when it crosses the size threshold or on an explicit flush.
type Ingestor struct {
	db       *pebblestore.DB
	dataDir  string
	maxBytes int
	ids      *id.Generator
	logger   logpkg.Logger
	metrics  *metrics.Metrics

	mu   sync.Mutex
	open map[string]*segment.Builder
}

// New creates an Ingestor writing under dataDir.
func New(db *pebblestore.DB, dataDir string, maxBytes int, logger logpkg.Logger, m *metrics.Metrics) *Ingestor {
	return &Ingestor{
		db:       db,
		dataDir:  dataDir,
		maxBytes: maxBytes,
		ids:      id.NewGenerator(),
		logger:   logger,
		metrics:  m,
		open:     make(map[string]*segment.Builder),
	}
}

// Append adds one entry to the partition's open segment, sealing first if the
// previous one is full.
func (in *Ingestor) Append(partition string, ts uint64, line []byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	b, ok := in.open[partition]
	if !ok {
		b = segment.NewBuilder(config.SegmentsDir(in.dataDir, partition), partition, in.ids.Next())
		in.open[partition] = b
	}

	b.Append(ts, line)
	in.metrics.IngestEntriesTotal.WithLabelValues(partition).Inc()
	in.metrics.IngestBytesTotal.Add(float64(len(line)))

	if in.maxBytes > 0 && b.Size() >= in.maxBytes {
		return in.sealLocked(partition, b)
	}
	return nil
}

// Flush seals the partition's open segment, if any. Flushing a partition with
// no buffered entries is a no-op.
func (in *Ingestor) Flush(partition string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	b, ok := in.open[partition]
	if !ok {
		return nil
	}
	return in.sealLocked(partition, b)
}

// FlushAll seals every open segment; used on shutdown.
func (in *Ingestor) FlushAll() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	for partition, b := range in.open {
		if err := in.sealLocked(partition, b); err != nil {
			return err
		}
	}
	return nil
}

func (in *Ingestor) sealLocked(partition string, b *segment.Builder) error {
	delete(in.open, partition)
	if b.Count() == 0 {
		return nil
	}
	if err := b.Seal(in.db); err != nil {
		in.logger.Error("seal segment failed",
			logpkg.Str("partition", partition),
			logpkg.Uint64("segment", b.ID()),
			logpkg.Err(err),
		)
		return err
	}
	in.metrics.SegmentsSealed.Inc()
	in.logger.Info("sealed segment",
		logpkg.Str("partition", partition),
		logpkg.Uint64("segment", b.ID()),
		logpkg.Int("entries", b.Count()),
		logpkg.Int("bytes", b.Size()),
	)
	return nil
}
