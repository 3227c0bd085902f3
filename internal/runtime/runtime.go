package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/manigandand/pathivu/internal/config"
	"github.com/manigandand/pathivu/internal/ingest"
	"github.com/manigandand/pathivu/internal/metrics"
	"github.com/manigandand/pathivu/internal/segment"
	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        logpkg.Logger
}

// Runtime wires storage, config, metrics, and the ingestor for a single-node
// instance. Services take a *Runtime and build on its handles.
type Runtime struct {
	db       *pebblestore.DB
	config   cfgpkg.Config
	logger   logpkg.Logger
	metrics  *metrics.Metrics
	ingestor *ingest.Ingestor
	dataDir  string
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNop()
	}
	m := metrics.New()

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       cfgpkg.StoreDir(opts.DataDir),
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       m,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		db:      db,
		config:  opts.Config,
		logger:  logger,
		metrics: m,
		dataDir: opts.DataDir,
	}
	rt.ingestor = ingest.New(db, opts.DataDir, opts.Config.MaxSegmentBytes, logger.WithComponent("ingest"), m)
	return rt, nil
}

// Close flushes open segments and closes underlying resources.
func (r *Runtime) Close() error {
	if r.ingestor != nil {
		if err := r.ingestor.FlushAll(); err != nil {
			r.logger.Error("flush on close failed", logpkg.Err(err))
		}
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// SegmentIDs returns the sealed segment ids of a partition, ascending. An
// unknown partition yields an empty set, not an error.
func (r *Runtime) SegmentIDs(partition string) ([]uint64, error) {
	val, found, err := r.db.Get(segment.RegistryKey(partition))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return segment.DecodePostingList(val)
}

// OpenIterator constructs a segment iterator for one sealed segment of a
// partition.
func (r *Runtime) OpenIterator(partition string, id uint64, q segment.Query) (*segment.Iterator, error) {
	dir := cfgpkg.SegmentsDir(r.dataDir, partition)
	return segment.NewIterator(r.db, dir, partition, id, q)
}

// DB exposes the underlying store for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the process logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

// Metrics returns the runtime's collectors.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }

// Ingestor returns the write path.
func (r *Runtime) Ingestor() *ingest.Ingestor { return r.ingestor }
