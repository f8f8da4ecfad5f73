package factoriodat

import (
	"encoding/binary"
	"math"
)

// Writer is an append-only byte accumulator with the mirror image of the
// Cursor's read operations.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) WriteUint8(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteDouble(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteUint32Optim appends a space-optimized uint32: values below 255 take a
// single byte, larger values take the 0xFF sentinel plus the full uint32.
func (w *Writer) WriteUint32Optim(v uint32) {
	if v < 0xFF {
		w.WriteUint8(byte(v))
	} else {
		w.WriteUint8(0xFF)
		w.WriteUint32(v)
	}
}

// WriteString appends a property-tree convention string: empty flag, then for
// non-empty strings an optimized uint32 length and the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.WriteBool(true)
		return
	}
	w.WriteBool(false)
	w.WriteUint32Optim(uint32(len(s)))
	w.buf = append(w.buf, s...)
}
