package steganon

import (
	"log/slog"
	"math/rand/v2"
	"os"
)

// ProgressFunc receives coarse progress of a hide or extract call: current and
// total bytes of the running operation and the index of the seed segment. It
// runs inside the hot loop and must not block or touch the session.
type ProgressFunc func(current, total, segment int)

// Config configures a Session.
type Config struct {
	// Seeds is the ordered seed chain. Layer N can only be revealed with
	// layers 1..N. At least one seed is required.
	Seeds [][]byte
	// RawSeeds uses the seeds verbatim as generator keys (1 to 32 bytes)
	// instead of deriving them. Not recommended; meant for reproducible tests.
	RawSeeds bool
	// TestMode paints every touched pixel with a solid color instead of
	// hiding data. Extraction is disabled.
	TestMode bool
	// Progress is optional.
	Progress ProgressFunc
	// Logger is an optional structured logger. If nil, a stderr logger is used.
	Logger *slog.Logger
	// SignSource picks the ±1 direction of LSB matching. If nil, a ChaCha8
	// source seeded from crypto/rand is used. It never affects which pixels
	// are chosen.
	SignSource rand.Source
}

func defaultLogger() *slog.Logger { // A
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h)
}

// progress throttles a ProgressFunc to roughly 5% steps.
type progress struct {
	fn      ProgressFunc
	total   int
	segment int
	step    int
	next    int
}

func newProgress(fn ProgressFunc, total, segment int) *progress {
	step := max(total/20, 1)
	return &progress{fn: fn, total: total, segment: segment, step: step, next: step}
}

func (p *progress) tick(current int) {
	if p.fn == nil {
		return
	}
	if current >= p.next || current == p.total {
		p.fn(current, p.total, p.segment)
		p.next = current + p.step
	}
}
