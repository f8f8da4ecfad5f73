package factoriodat

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Cursor is a forward-only read position over an immutable byte buffer.
// Every multi-byte read bounds-checks before slicing; malformed or truncated
// input fails with an error, never a panic.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor at the start of buf. The cursor borrows buf and
// never mutates it.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining reports how many unread bytes are left.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// PeekByte returns the next unread byte without advancing. At end of input it
// returns ErrEof; this is the explicit check record parsers use to require
// (or detect) trailing data.
func (c *Cursor) PeekByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrEof
	}
	return c.buf[c.pos], nil
}

// NextByte consumes and returns one byte.
func (c *Cursor) NextByte() (byte, error) {
	b, err := c.PeekByte()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// take consumes n bytes, failing with ErrByteSlicing when fewer remain.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, ErrByteSlicing
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// NextUint16 consumes a little-endian uint16.
func (c *Cursor) NextUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// NextUint32 consumes a little-endian uint32.
func (c *Cursor) NextUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// NextUint16Optim consumes a space-optimized uint16: one byte holds the value
// unless it is the 0xFF sentinel, in which case the full uint16 follows.
func (c *Cursor) NextUint16Optim() (uint16, error) {
	b, err := c.NextByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return uint16(b), nil
	}
	return c.NextUint16()
}

// NextUint32Optim consumes a space-optimized uint32: one byte holds the value
// unless it is the 0xFF sentinel, in which case the full uint32 follows.
func (c *Cursor) NextUint32Optim() (uint32, error) {
	b, err := c.NextByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return uint32(b), nil
	}
	return c.NextUint32()
}

// NextBool consumes one byte; exactly 1 is true, anything else false.
func (c *Cursor) NextBool() (bool, error) {
	b, err := c.NextByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// NextDouble consumes a little-endian IEEE-754 double.
func (c *Cursor) NextDouble() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// NextString consumes a property-tree convention string: a leading bool marks
// an empty string, otherwise an optimized uint32 length precedes the UTF-8
// bytes. Used inside PropertyTree nodes and mod-settings records.
func (c *Cursor) NextString() (string, error) {
	empty, err := c.NextBool()
	if err != nil {
		return "", err
	}
	if empty {
		return "", nil
	}
	return c.nextStringBody()
}

// NextStringSaveHeader consumes a save-header convention string: no empty
// flag, always an optimized uint32 length then UTF-8 bytes.
func (c *Cursor) NextStringSaveHeader() (string, error) {
	return c.nextStringBody()
}

func (c *Cursor) nextStringBody() (string, error) {
	n, err := c.NextUint32Optim()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string of length %d", ErrUtf8, n)
	}
	return string(b), nil
}
