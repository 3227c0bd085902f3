package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/manigandand/pathivu/internal/runtime"
	"github.com/manigandand/pathivu/internal/segment"
	querysvc "github.com/manigandand/pathivu/internal/services/query"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

// Server exposes Pathivu's ingest and query API over HTTP.
type Server struct {
	rt      *runtime.Runtime
	query   *querysvc.Service
	srv     *http.Server
	lis     net.Listener
	logger  logpkg.Logger
	limiter *rate.Limiter
}

// New builds the server and its routes.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	cfg := rt.Config()

	ingestRate := rate.Inf
	if cfg.IngestRatePerSec > 0 {
		ingestRate = rate.Limit(cfg.IngestRatePerSec)
	}

	s := &Server{
		rt:      rt,
		query:   querysvc.New(rt, logger.WithComponent("query")),
		logger:  logger,
		limiter: rate.NewLimiter(ingestRate, max(cfg.IngestBurst, 1)),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/v1/logs", s.handleAppend)
	r.Post("/v1/flush", s.handleFlush)
	r.Get("/v1/query", s.handleQuery)
	r.Get("/v1/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", rt.Metrics().Handler())

	s.srv = &http.Server{Handler: r}
	return s
}

// Handler returns the route tree; used by tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

type appendReq struct {
	Partition string       `json:"partition"`
	Entries   []appendLine `json:"entries"`
}

type appendLine struct {
	Ts   uint64 `json:"ts"`
	Line string `json:"line"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Partition == "" {
		req.Partition = "default"
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no entries"))
		return
	}
	if !s.limiter.AllowN(time.Now(), len(req.Entries)) {
		writeError(w, http.StatusTooManyRequests, errors.New("ingest rate exceeded"))
		return
	}
	for _, e := range req.Entries {
		ts := e.Ts
		if ts == 0 {
			ts = uint64(time.Now().UnixMilli())
		}
		if err := s.rt.Ingestor().Append(req.Partition, ts, []byte(e.Line)); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"appended": len(req.Entries)})
}

type flushReq struct {
	Partition string `json:"partition"`
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	var req flushReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Partition == "" {
		req.Partition = "default"
	}
	if err := s.rt.Ingestor().Flush(req.Partition); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := querysvc.Request{
		Partition: q.Get("partition"),
		Query:     q.Get("q"),
		Filter:    q.Get("filter"),
	}
	if req.Partition == "" {
		req.Partition = "default"
	}

	var err error
	var start, end uint64
	if start, err = parseUint(q.Get("start")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if end, err = parseUint(q.Get("end")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Range = segment.Between(start, end)
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		req.Limit = n
	}

	resp, err := s.query.Search(r.Context(), req)
	if err != nil {
		var corruptIndex *segment.CorruptIndexError
		var corruptSegment *segment.CorruptSegmentError
		if errors.As(err, &corruptIndex) || errors.As(err, &corruptSegment) {
			s.logger.Error("corrupt segment data", logpkg.Str("partition", req.Partition), logpkg.Err(err))
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_serving"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseUint(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
