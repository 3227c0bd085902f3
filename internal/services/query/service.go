package querysvc

import (
	"context"
	"time"

	"github.com/manigandand/pathivu/internal/runtime"
	"github.com/manigandand/pathivu/internal/segment"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

// Request describes one search across a partition's sealed segments.
type Request struct {
	Partition string
	// Query is an optional fuzzy text query (edit distance 2); empty matches
	// every entry.
	Query string
	// Range filters by timestamp; the zero value is unbounded.
	Range segment.TimeRange
	// Filter is an optional CEL expression over partition/segment/ts/size/text.
	Filter string
	// Limit caps returned matches; <=0 uses the configured default.
	Limit int
}

// Match is one returned entry with its segment provenance.
type Match struct {
	Segment uint64 `json:"segment"`
	Ts      uint64 `json:"ts"`
	Line    string `json:"line"`
}

// Response carries the matches and scan stats.
type Response struct {
	Matches         []Match `json:"matches"`
	SegmentsScanned int     `json:"segmentsScanned"`
}

// Service resolves searches against sealed segments.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// New creates a query service.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	return &Service{rt: rt, logger: logger}
}

// Search runs one query: every sealed segment of the partition is resolved
// through a segment iterator (ascending id) and drained, with the optional
// CEL filter and limit applied across segments. Open segments not yet sealed
// are invisible to searches.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	m := s.rt.Metrics()
	m.QueriesTotal.WithLabelValues(req.Partition).Inc()

	filter, err := newCELFilter(req.Filter)
	if err != nil {
		m.QueryErrorsTotal.WithLabelValues(req.Partition).Inc()
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.rt.Config().DefaultQueryLimit
	}

	ids, err := s.rt.SegmentIDs(req.Partition)
	if err != nil {
		m.QueryErrorsTotal.WithLabelValues(req.Partition).Inc()
		return nil, err
	}

	resp := &Response{Matches: []Match{}}
	for _, segID := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it, err := s.rt.OpenIterator(req.Partition, segID, segment.Query{Text: req.Query, Range: req.Range})
		if err != nil {
			m.QueryErrorsTotal.WithLabelValues(req.Partition).Inc()
			return nil, err
		}
		resp.SegmentsScanned++
		m.SegmentsScanned.Inc()

		for e := it.Entry(); e != nil; e = it.Entry() {
			if filter.Eval(req.Partition, segID, e) {
				resp.Matches = append(resp.Matches, Match{Segment: segID, Ts: e.Ts, Line: string(e.Line)})
				if len(resp.Matches) >= limit {
					s.observe(req, resp, start)
					return resp, nil
				}
			}
			if !it.Next() {
				break
			}
		}
	}

	s.observe(req, resp, start)
	return resp, nil
}

func (s *Service) observe(req Request, resp *Response, start time.Time) {
	m := s.rt.Metrics()
	m.QueryDuration.Observe(time.Since(start).Seconds())
	m.QueryEntriesReturned.Observe(float64(len(resp.Matches)))
	s.logger.Debug("search complete",
		logpkg.Str("partition", req.Partition),
		logpkg.Str("query", req.Query),
		logpkg.Int("segments", resp.SegmentsScanned),
		logpkg.Int("matches", len(resp.Matches)),
		logpkg.Dur("elapsed", time.Since(start)),
	)
}
