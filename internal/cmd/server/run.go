package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/manigandand/pathivu/internal/config"
	"github.com/manigandand/pathivu/internal/runtime"
	httpserver "github.com/manigandand/pathivu/internal/server/http"
	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

// Options configure the server run loop.
type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        logpkg.Logger
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails. Open segments are flushed on the way out via the runtime close.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so direct callers
	// get clean shutdown even without a signal-aware context.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}

	rt, err := runtime.Open(runtime.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("starting pathivu server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Int("max_segment_bytes", opts.Config.MaxSegmentBytes),
	)

	hsrv := httpserver.New(rt, logger.WithComponent("http"))
	defer hsrv.Close()

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error { return hsrv.ListenAndServe(gctx, opts.HTTPAddr) })
	return g.Wait()
}
