package steganon

import (
	"encoding/binary"
	"io"
	"iter"

	"github.com/i5heu/steganon/internal/bitcodec"
	"github.com/i5heu/steganon/internal/lsb"
	"github.com/i5heu/steganon/internal/pixelmask"
)

// readState is the extraction cursor of the current segment.
type readState struct {
	length   uint64
	consumed uint64
	started  bool
	asm      bitcodec.Assembler
	window   []pixelmask.Point
	progress *progress
}

func (s *Session) checkRead(op string) error {
	if s.conf.TestMode {
		return newError(KindTestMode, op, "can not extract on a test mode session")
	}
	if s.mode == modeWriting {
		return newError(KindModeConflict, op, "write state already created, can not extract; make a new session")
	}
	return nil
}

// readHeader decodes the length of the current segment once.
func (s *Session) readHeader(op string) error {
	if s.rd != nil {
		return nil
	}
	if s.readErr != nil {
		return s.readErr
	}
	if err := s.decodeHeader(op); err != nil {
		s.readErr = err
		return err
	}
	return nil
}

func (s *Session) decodeHeader(op string) error {
	if s.mode == modeIdle {
		s.log.Debug("reading segment", "segment", s.pos)
	}
	s.mode = modeReading

	if s.mask.Free() < HeaderPixels {
		return newError(KindInvalidSeed, op, "no pixels left for a segment header")
	}

	var asm bitcodec.Assembler
	var raw []byte
	for i := 0; i < HeaderPixels; i++ {
		at := s.sel.Draw()
		bits := lsb.Bits(s.buf.At(at.X, at.Y))
		for j, bit := range bits {
			if i*lsb.Channels+j >= headerBits {
				break
			}
			if b, ok := asm.Push(bit); ok {
				raw = append(raw, b)
			}
		}
	}
	length := uint64(binary.BigEndian.Uint32(raw))

	capacity := s.MaxAllowedBytes()
	if s.prevRead+length > capacity {
		return newError(KindInvalidSeed, op,
			"decoded length %d exceeds image capacity %d; wrong seed or lossy image", length, capacity-min(capacity, s.prevRead))
	}
	if need := uint64(bitcodec.PixelsFor(int(8 * length))); need > uint64(s.mask.Free()) {
		return newError(KindInvalidSeed, op,
			"decoded length %d needs %d pixels, %d left; wrong seed or lossy image", length, need, s.mask.Free())
	}

	s.rd = &readState{
		length:   length,
		progress: newProgress(s.conf.Progress, int(length), s.pos),
	}
	s.log.Debug("segment length decoded", "segment", s.pos, "bytes", length)
	return nil
}

// ExtractInfoSize returns the declared payload length of the current segment
// without reading the payload.
func (s *Session) ExtractInfoSize() (uint64, error) {
	const op = "extract info size"
	if err := s.checkRead(op); err != nil {
		return 0, err
	}
	if err := s.readHeader(op); err != nil {
		return 0, err
	}
	return s.rd.length, nil
}

// Extract returns the whole payload of the current segment.
func (s *Session) Extract() ([]byte, error) {
	st, err := s.open("extract", 0)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, st.Len())
	for {
		chunk, err := st.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// ExtractStream returns a Stream over the payload of the current segment
// that yields chunks of about chunkSize bytes. chunkSize <= 0 yields the
// payload in one chunk. Only about chunkSize bytes and the matching pixel
// window are held at a time.
func (s *Session) ExtractStream(chunkSize int) (*Stream, error) {
	return s.open("extract stream", chunkSize)
}

func (s *Session) open(op string, chunkSize int) (*Stream, error) {
	if err := s.checkRead(op); err != nil {
		return nil, err
	}
	if s.active != nil {
		return nil, newError(KindModeConflict, op, "another extraction stream is open")
	}
	if err := s.readHeader(op); err != nil {
		return nil, err
	}
	if s.rd.started {
		return nil, newError(KindModeConflict, op, "segment %d already extracted", s.pos)
	}
	s.rd.started = true

	st := &Stream{s: s, rd: s.rd, chunk: chunkSize}
	s.active = st
	return st, nil
}

// skipSegment draws the unread pixels of the current segment without
// decoding them.
func (s *Session) skipSegment(op string) error {
	if err := s.readHeader(op); err != nil {
		return err
	}
	rd := s.rd
	rd.started = true
	bits := int(8*(rd.length-rd.consumed)) - rd.asm.Pending()
	for n := bitcodec.PixelsFor(max(bits, 0)); n > 0; n-- {
		s.sel.Draw()
	}
	rd.consumed = rd.length
	rd.asm.Reset()
	return nil
}

// Stream yields the payload of one segment chunk by chunk. It is not
// restartable and holds the Session exclusively until it returns io.EOF or
// is closed.
type Stream struct {
	s       *Session
	rd      *readState
	chunk   int
	done    bool
	pending []byte
}

// Len is the declared length of the segment.
func (st *Stream) Len() uint64 { return st.rd.length }

// Next returns the next chunk, or io.EOF once the segment is exhausted.
func (st *Stream) Next() ([]byte, error) {
	if st.done {
		return nil, io.EOF
	}
	rd := st.rd
	remaining := rd.length - rd.consumed
	if remaining == 0 {
		st.Close()
		return nil, io.EOF
	}

	want := remaining
	if st.chunk > 0 && uint64(st.chunk) < want {
		want = uint64(st.chunk)
	}

	s := st.s
	bits := int(8*want) - rd.asm.Pending()
	n := bitcodec.PixelsFor(bits)
	if cap(rd.window) < n {
		rd.window = make([]pixelmask.Point, n)
	}
	window := rd.window[:n]
	s.sel.DrawN(window)

	out := make([]byte, 0, want)
	for _, at := range window {
		for _, bit := range lsb.Bits(s.buf.At(at.X, at.Y)) {
			if b, ok := rd.asm.Push(bit); ok {
				out = append(out, b)
				rd.progress.tick(int(rd.consumed) + len(out))
			}
		}
	}
	rd.consumed += uint64(len(out))

	if rd.consumed == rd.length {
		st.Close()
	}
	return out, nil
}

// All iterates over the remaining chunks. Iteration stops after the first
// error, which is yielded.
func (st *Stream) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			chunk, err := st.Next()
			if err == io.EOF {
				return
			}
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// Read implements io.Reader on top of Next.
func (st *Stream) Read(p []byte) (int, error) {
	if len(st.pending) == 0 {
		chunk, err := st.Next()
		if err != nil {
			return 0, err
		}
		st.pending = chunk
	}
	n := copy(p, st.pending)
	st.pending = st.pending[n:]
	return n, nil
}

// Close gives up the rest of the segment and releases the Session. The
// segment can not be extracted again; Session.Next skips what was not read.
func (st *Stream) Close() error {
	st.done = true
	if st.s.active == st {
		st.s.active = nil
	}
	return nil
}
