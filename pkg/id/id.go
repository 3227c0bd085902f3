package id

import (
	"sync"
	"time"
)

// Segment ids are 64-bit and lexicographically sortable when encoded
// big-endian: [44 bits ms timestamp][20 bits sequence].
const seqBits = 20

// Generator produces monotonically increasing uint64 ids per process.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMs returns current time in milliseconds since Unix epoch.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns a new id. If the clock goes backwards, it reuses lastMs and
// increments the sequence. If the sequence overflows within the same
// millisecond, it waits for the next one.
func (g *Generator) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	if ms == g.lastMs {
		g.sequence++
		if g.sequence >= 1<<seqBits {
			for ms <= g.lastMs {
				ms = NowMs()
			}
			g.sequence = 0
		}
	} else {
		g.sequence = 0
	}
	g.lastMs = ms
	return uint64(ms)<<seqBits | g.sequence
}
