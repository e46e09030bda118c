// Package stream reads the fixed-width little-endian fields of a Mach-O image
// from a seekable byte stream while keeping track of the absolute cursor.
package stream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrTruncated is matched by every short read.
var ErrTruncated = errors.New("truncated")

// TruncatedError is returned when the stream ends before a field or buffer is complete.
type TruncatedError struct {
	Off  int64 // offset the read started at
	Want int
	Got  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated read at byte %#x: wanted %d bytes, got %d", e.Off, e.Want, e.Got)
}

func (e *TruncatedError) Is(target error) bool { return target == ErrTruncated }

// A Reader decodes little-endian values from an io.ReadSeeker.
//
// The Reader buffers ahead of the cursor, so it owns the underlying stream;
// callers must not read or seek it behind the Reader's back.
type Reader struct {
	rs  io.ReadSeeker
	br  *bufio.Reader
	off int64
	buf [8]byte
}

// NewReader returns a Reader positioned at the current offset of rs.
func NewReader(rs io.ReadSeeker) *Reader {
	off, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		off = 0
	}
	return &Reader{rs: rs, br: bufio.NewReader(rs), off: off}
}

// Offset returns the absolute position of the cursor.
func (r *Reader) Offset() int64 { return r.off }

// SeekTo moves the cursor to the absolute offset off.
func (r *Reader) SeekTo(off int64) error {
	if off < 0 {
		return errors.Errorf("invalid seek to negative offset %d", off)
	}
	// forward seeks inside the buffered window don't touch the stream
	if ahead := off - r.off; ahead >= 0 && ahead <= int64(r.br.Buffered()) {
		if _, err := r.br.Discard(int(ahead)); err != nil {
			return errors.Wrapf(err, "failed to seek to %#x", off)
		}
		r.off = off
		return nil
	}
	n, err := r.rs.Seek(off, io.SeekStart)
	if err != nil {
		return errors.Wrapf(err, "failed to seek to %#x", off)
	}
	r.br.Reset(r.rs)
	r.off = n
	return nil
}

// Skip moves the cursor n bytes forward without reading them.
func (r *Reader) Skip(n int64) error {
	return r.SeekTo(r.off + n)
}

// ReadFull fills buf completely or fails with a *TruncatedError.
func (r *Reader) ReadFull(buf []byte) error {
	start := r.off
	n, err := io.ReadFull(r.br, buf)
	r.off += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &TruncatedError{Off: start, Want: len(buf), Got: n}
		}
		return errors.Wrapf(err, "failed to read %d bytes at %#x", len(buf), start)
	}
	return nil
}

// Bytes reads the next n bytes. The result grows as data arrives, so a
// length taken from a corrupt file cannot force a large allocation.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("invalid read length %d", n)
	}
	start := r.off
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r.br, int64(n))
	r.off += got
	if err != nil {
		if err == io.EOF {
			return nil, &TruncatedError{Off: start, Want: n, Got: int(got)}
		}
		return nil, errors.Wrapf(err, "failed to read %d bytes at %#x", n, start)
	}
	return buf.Bytes(), nil
}

func (r *Reader) Uint8() (uint8, error) {
	if err := r.ReadFull(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *Reader) Uint16() (uint16, error) {
	if err := r.ReadFull(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.ReadFull(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

func (r *Reader) Uint64() (uint64, error) {
	if err := r.ReadFull(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

// Addr reads an address-sized field: 8 bytes when is64 is set, 4 otherwise.
func (r *Reader) Addr(is64 bool) (uint64, error) {
	if is64 {
		return r.Uint64()
	}
	v, err := r.Uint32()
	return uint64(v), err
}

// CString reads bytes up to a NUL or the end of the stream and returns them
// without the terminator. Hitting the end of the stream is not an error.
func (r *Reader) CString() (string, error) {
	var s []byte
	for {
		c, err := r.br.ReadByte()
		if err == io.EOF {
			return string(s), nil
		}
		if err != nil {
			return string(s), errors.Wrapf(err, "failed to read string at %#x", r.off)
		}
		r.off++
		if c == 0 {
			return string(s), nil
		}
		s = append(s, c)
	}
}

// A Mark is a saved cursor position.
type Mark struct {
	r   *Reader
	off int64
}

// Mark saves the current cursor.
func (r *Reader) Mark() Mark { return Mark{r: r, off: r.off} }

// Offset returns the saved position.
func (m Mark) Offset() int64 { return m.off }

// Restore moves the cursor back to the saved position.
func (m Mark) Restore() error { return m.r.SeekTo(m.off) }

// At runs fn with the cursor positioned at off and puts the cursor back where
// it was once fn returns, whether fn succeeded, failed or panicked.
func (r *Reader) At(off int64, fn func(*Reader) error) (err error) {
	m := r.Mark()
	defer func() {
		if rerr := m.Restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	if err := r.SeekTo(off); err != nil {
		return err
	}
	return fn(r)
}
