package steganon

import (
	"encoding/binary"

	"github.com/i5heu/steganon/internal/bitcodec"
	"github.com/i5heu/steganon/internal/lsb"
)

// Hide appends data to the payload of the current segment and returns the
// number of bytes hidden in that segment so far. The segment length header is
// written by Next, Finalize or Save.
func (s *Session) Hide(data []byte) (uint64, error) {
	const op = "hide"
	switch {
	case s.mode == modeReading:
		return 0, newError(KindModeConflict, op, "extract state already created, can not write; make a new session")
	case s.finalized:
		return 0, newError(KindModeConflict, op, "session already finalized")
	case len(data) == 0:
		return 0, newError(KindEmptyData, op, "data can not be empty")
	}

	n := uint64(len(data))
	total := s.TotalWritten() + n
	if capacity := s.MaxAllowedBytes(); total > capacity {
		return 0, newError(KindCapacityExceeded, op,
			"can not add more data: image holds %d bytes, %d used, %d requested", capacity, s.TotalWritten(), n)
	}
	if total > MaxPayload {
		return 0, newError(KindCapacityExceeded, op, "can not add more data: protocol maximum is %d bytes", uint64(MaxPayload))
	}
	if need := s.pixelsForHide(n); need > uint64(s.mask.Free()) {
		return 0, newError(KindCapacityExceeded, op,
			"can not add more data: %d free pixels, %d needed", s.mask.Free(), need)
	}

	if s.mode == modeIdle {
		s.log.Debug("writing segment", "segment", s.pos)
	}
	s.mode = modeWriting
	if s.header == nil {
		s.reserveHeader()
	}

	p := newProgress(s.conf.Progress, len(data), s.pos)
	r := bitcodec.NewReader(data)
	for {
		bit, ok := r.Next()
		if !ok {
			break
		}
		if s.cont == nil {
			at := s.sel.Draw()
			s.cont = &continuation{at: at, px: lsb.NewPixel(s.buf.At(at.X, at.Y))}
		}
		s.embed.Embed(s.cont.px, bit)
		if s.cont.px.Full() {
			s.buf.Set(s.cont.at.X, s.cont.at.Y, s.embed.Output(s.cont.px))
			s.cont = nil
		}
		if rem := r.Remaining(); rem%8 == 0 {
			p.tick(len(data) - rem/8)
		}
	}
	// Keep the image consistent while the pixel waits for the next call. The
	// unused slots still hold their original values.
	if s.cont != nil {
		s.buf.Set(s.cont.at.X, s.cont.at.Y, s.embed.Output(s.cont.px))
	}

	s.segWritten += n
	return s.segWritten, nil
}

// pixelsForHide is the number of fresh pixels a Hide of n bytes draws.
func (s *Session) pixelsForHide(n uint64) uint64 {
	bits := 8 * n
	if s.cont != nil {
		free := uint64(lsb.Channels - s.cont.px.Filled())
		bits -= min(bits, free)
	}
	need := (bits + bitcodec.BitsPerPixel - 1) / bitcodec.BitsPerPixel
	if s.header == nil {
		need += HeaderPixels
	}
	return need
}

// reserveHeader draws the first HeaderPixels coordinates of the segment and
// remembers their channels. They are written last, once the length is known.
func (s *Session) reserveHeader() {
	h := &header{}
	for i := range h.points {
		at := s.sel.Draw()
		h.points[i] = at
		h.orig[i] = s.buf.At(at.X, at.Y)
	}
	s.header = h
}

// writeHeader stores the segment length in the reserved pixels, starting from
// their original channels. Slots 32..35 are left untouched.
func (s *Session) writeHeader(op string) error {
	if s.headerWritten {
		return nil
	}
	if s.header == nil {
		if s.mask.Free() < HeaderPixels {
			return newError(KindCapacityExceeded, op, "no room for the segment header")
		}
		s.reserveHeader()
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(s.segWritten))
	r := bitcodec.NewReader(length[:])

	for i, at := range s.header.points {
		px := lsb.NewPixel(s.header.orig[i])
		for px.Filled() < lsb.Channels {
			if bit, ok := r.Next(); ok {
				s.embed.Embed(px, bit)
			} else {
				s.embed.Skip(px)
			}
		}
		s.buf.Set(at.X, at.Y, s.embed.Output(px))
	}

	s.headerWritten = true
	s.log.Debug("segment header written", "segment", s.pos, "bytes", s.segWritten)
	return nil
}
