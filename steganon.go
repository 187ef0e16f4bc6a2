/*
Package steganon hides byte payloads in the color channels of raster images.

Pixels are chosen by a seeded pseudo-random walk and each carries three bits,
one in the least significant bit of R, G and B, written with LSB matching.
Several seeds can be chained on one image: every seed unlocks its own segment,
and segment N can only be found with seeds 1..N.

On the pixel grid every segment is laid out as
  - 12 pixels holding the 4 byte big-endian payload length,
  - ceil(8*length/3) pixels holding the payload, MSB first.

A Session is owned by one goroutine. It is not safe for concurrent use.
*/
package steganon

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"

	"github.com/i5heu/steganon/internal/lsb"
	"github.com/i5heu/steganon/internal/pixelmask"
	"github.com/i5heu/steganon/internal/prng"
	"github.com/i5heu/steganon/internal/seedchain"
	"github.com/i5heu/steganon/pkg/imageio"
	"github.com/i5heu/steganon/pkg/pixels"
)

const (
	// HeaderPixels is the number of pixels reserved for a segment length.
	HeaderPixels = 12
	headerBits   = 32
	// MaxPayload is the protocol ceiling for all segments together.
	MaxPayload = 1<<32 - 1
)

type mode int

const (
	modeIdle mode = iota
	modeWriting
	modeReading
)

func (m mode) String() string {
	switch m {
	case modeWriting:
		return "writing"
	case modeReading:
		return "reading"
	}
	return "idle"
}

// header holds the reserved length pixels of the current segment together
// with their channels as they were when first drawn.
type header struct {
	points [HeaderPixels]pixelmask.Point
	orig   [HeaderPixels][]uint8
}

// continuation is a body pixel whose three slots were not all used by the
// previous Hide call.
type continuation struct {
	at pixelmask.Point
	px *lsb.Pixel
}

// Session hides into or extracts from one image.
type Session struct {
	log  *slog.Logger
	conf Config

	buf           pixels.Buffer
	width, height int
	chain         *seedchain.Chain
	mask          *pixelmask.Mask
	sel           *pixelmask.Selector
	embed         *lsb.Embedder

	mode      mode
	pos       int
	finalized bool

	// writing
	header        *header
	headerWritten bool
	segWritten    uint64
	prevWritten   uint64
	cont          *continuation

	// reading
	rd       *readState
	readErr  error
	prevRead uint64
	active   *Stream
}

// New creates a Session over buf. buf is modified in place by Hide, Next and
// Finalize.
func New(buf pixels.Buffer, conf Config) (*Session, error) { // A
	const op = "new"
	if conf.Logger == nil {
		conf.Logger = defaultLogger()
	}

	w, h := buf.Width(), buf.Height()
	if w <= 0 || h <= 0 {
		return nil, newError(KindUnsupportedImage, op, "image has no pixels")
	}
	if n := len(buf.At(0, 0)); n < lsb.Channels {
		return nil, newError(KindUnsupportedImage, op, "image has %d channels, need at least %d", n, lsb.Channels)
	}

	signs := conf.SignSource
	if signs == nil {
		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, fmt.Errorf("seed sign source: %w", err)
		}
		signs = mrand.NewChaCha8(seed)
	}

	s := &Session{
		log:    conf.Logger,
		conf:   conf,
		buf:    buf,
		width:  w,
		height: h,
		mask:   pixelmask.NewMask(w, h),
		embed:  lsb.NewEmbedder(mrand.New(signs), conf.TestMode),
	}
	if err := s.useSeeds(op, conf.Seeds); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) useSeeds(op string, seeds [][]byte) error {
	chain, err := seedchain.Derive(seeds, s.width, s.height, s.conf.RawSeeds)
	if err != nil {
		return &Error{Kind: KindSeedMisuse, Op: op, Err: err}
	}
	rng, err := prng.New(chain.At(0))
	if err != nil {
		return &Error{Kind: KindSeedMisuse, Op: op, Err: err}
	}
	s.chain = chain
	s.pos = 0
	if s.sel == nil {
		s.sel = pixelmask.NewSelector(s.mask, rng)
	} else {
		s.sel.Reseed(rng)
	}
	return nil
}

// SetSeeds replaces the seed chain. It is only allowed before the first
// Hide or extraction.
func (s *Session) SetSeeds(seeds ...[]byte) error {
	if s.mode != modeIdle || s.finalized {
		return newError(KindSeedMisuse, "set seeds", "seed already in use, can not change")
	}
	return s.useSeeds("set seeds", seeds)
}

// Seed returns the generator seed of the current segment.
func (s *Session) Seed() []byte { return s.chain.At(s.pos) }

// CurrentSeedPos is the index of the current segment in the seed chain.
func (s *Session) CurrentSeedPos() int { return s.pos }

// Seeds is the length of the seed chain.
func (s *Session) Seeds() int { return s.chain.Len() }

// MaxAllowedBytes is the capacity of the image: width*height/3 bytes.
func (s *Session) MaxAllowedBytes() uint64 {
	return uint64(s.width) * uint64(s.height) / 3
}

// TotalWritten is the number of payload bytes hidden over all segments.
func (s *Session) TotalWritten() uint64 { return s.prevWritten + s.segWritten }

// SegmentWritten is the number of payload bytes hidden in the current segment.
func (s *Session) SegmentWritten() uint64 { return s.segWritten }

// Next closes the current segment and moves to the next seed. While writing,
// the pending length header is written. While reading, the unread remainder
// of the segment is skipped so the walk stays in step with the writer.
//
// A session that has neither hidden nor extracted anything has no mode yet,
// and Next returns a ModeConflict. A reader that wants a later layer calls
// ExtractInfoSize first, which reads the header and enters read mode:
//
//	if _, err := s.ExtractInfoSize(); err != nil { ... }
//	err := s.Next()
func (s *Session) Next() error {
	const op = "next"
	if s.finalized {
		return newError(KindModeConflict, op, "session already finalized")
	}
	if s.active != nil {
		return newError(KindModeConflict, op, "extraction stream still open")
	}
	if s.pos+1 >= s.chain.Len() {
		return newError(KindSeedMisuse, op, "already on last seed (%d of %d)", s.pos+1, s.chain.Len())
	}

	switch s.mode {
	case modeWriting:
		if err := s.writeHeader(op); err != nil {
			return err
		}
		s.prevWritten += s.segWritten
		s.segWritten = 0
		s.header = nil
		s.headerWritten = false
		s.cont = nil
	case modeReading:
		if err := s.skipSegment(op); err != nil {
			return err
		}
		s.prevRead += s.rd.length
		s.rd = nil
	default:
		return newError(KindModeConflict, op, "nothing hidden or extracted yet")
	}

	s.pos++
	rng, err := prng.New(s.chain.At(s.pos))
	if err != nil {
		return &Error{Kind: KindSeedMisuse, Op: op, Err: err}
	}
	s.sel.Reseed(rng)
	s.log.Debug("advanced to next seed", "segment", s.pos, "mode", s.mode)
	return nil
}

// Finalize writes the length header of the current segment if it is still
// pending. Later calls do nothing. After Finalize the session no longer hides.
func (s *Session) Finalize() error {
	if s.finalized {
		return nil
	}
	if s.mode == modeWriting && !s.headerWritten {
		if err := s.writeHeader("finalize"); err != nil {
			return err
		}
	}
	s.finalized = s.mode != modeReading
	return nil
}

// Save finalizes the session and encodes the image in a lossless format. The
// buffer must implement pixels.Imager.
func (s *Session) Save(w io.Writer, f imageio.Format) error {
	if err := s.Finalize(); err != nil {
		return err
	}
	im, ok := s.buf.(pixels.Imager)
	if !ok {
		return newError(KindUnsupportedImage, "save", "buffer %T can not be encoded", s.buf)
	}
	return imageio.Encode(w, im.Image(), f)
}

// Buffer returns the underlying pixel buffer.
func (s *Session) Buffer() pixels.Buffer { return s.buf }
