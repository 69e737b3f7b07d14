package flshm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AMF0 type markers used by the message header.
const (
	amfNumber  byte = 0x00
	amfBoolean byte = 0x01
	amfString  byte = 0x02
)

const maxAMFString = math.MaxUint16

// amfWriter appends AMF0 primitives to a buffer.
type amfWriter struct {
	buf []byte
}

func (w *amfWriter) writeString(s string) error {
	if len(s) > maxAMFString {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	w.buf = append(w.buf, amfString)
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *amfWriter) writeBoolean(b bool) {
	var v byte
	if b {
		v = 1
	}
	w.buf = append(w.buf, amfBoolean, v)
}

func (w *amfWriter) writeNumber(f float64) {
	w.buf = append(w.buf, amfNumber)
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(f))
}

// amfReader consumes AMF0 primitives from a buffer.
// Strings are copied out so nothing it returns aliases the source.
type amfReader struct {
	buf []byte
	off int
}

// peek returns the next type marker without consuming it.
func (r *amfReader) peek() (byte, bool) {
	if r.off >= len(r.buf) {
		return 0, false
	}
	return r.buf[r.off], true
}

// next reports whether the next value has the given marker.
func (r *amfReader) next(marker byte) bool {
	m, ok := r.peek()
	return ok && m == marker
}

func (r *amfReader) expect(marker byte, n int) error {
	if r.off+1+n > len(r.buf) {
		return fmt.Errorf("%w: truncated at offset %d", ErrMalformedMessage, r.off)
	}
	if r.buf[r.off] != marker {
		return fmt.Errorf("%w: marker 0x%02x at offset %d, want 0x%02x", ErrMalformedMessage, r.buf[r.off], r.off, marker)
	}
	r.off++
	return nil
}

func (r *amfReader) readString() (string, error) {
	if err := r.expect(amfString, 2); err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(r.buf[r.off:]))
	r.off += 2
	if r.off+n > len(r.buf) {
		return "", fmt.Errorf("%w: string of %d bytes overruns body", ErrMalformedMessage, n)
	}
	s := string(r.buf[r.off : r.off+n])
	r.off += n
	return s, nil
}

func (r *amfReader) readBoolean() (bool, error) {
	if err := r.expect(amfBoolean, 1); err != nil {
		return false, err
	}
	b := r.buf[r.off] != 0
	r.off++
	return b, nil
}

func (r *amfReader) readNumber() (float64, error) {
	if err := r.expect(amfNumber, 8); err != nil {
		return 0, err
	}
	f := math.Float64frombits(binary.BigEndian.Uint64(r.buf[r.off:]))
	r.off += 8
	return f, nil
}

// readInteger reads a number that must hold an integer in [lo, hi].
func (r *amfReader) readInteger(lo, hi float64) (int64, error) {
	f, err := r.readNumber()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < lo || f > hi {
		return 0, fmt.Errorf("%w: number %v out of range", ErrMalformedMessage, f)
	}
	return int64(f), nil
}

// rest returns a copy of the unread bytes.
func (r *amfReader) rest() []byte {
	out := make([]byte, len(r.buf)-r.off)
	copy(out, r.buf[r.off:])
	r.off = len(r.buf)
	return out
}
