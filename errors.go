package factoriodat

import (
	"errors"
	"fmt"
)

// Decode errors form a closed set. Payload-carrying failures wrap one of
// these sentinels with fmt.Errorf("%w: ..."), so callers can match the kind
// with errors.Is and still surface the full message verbatim.
var (
	// ErrEof is returned by Cursor.PeekByte at end of input. Record parsers
	// that require a buffer to end exactly after the record treat it as the
	// success signal of their trailing-data check.
	ErrEof = errors.New("eof")

	// ErrByteSlicing is returned when fewer bytes remain than a fixed-width
	// read requires.
	ErrByteSlicing = errors.New("byte slicing out of bounds")

	// ErrUtf8 is returned when decoded string bytes are not valid UTF-8.
	ErrUtf8 = errors.New("invalid utf-8")

	// ErrOutOfRange is returned for an unknown PropertyTree discriminator.
	ErrOutOfRange = errors.New("property tree type out of range")

	// ErrSyntax is returned for structural violations: wrong sentinel value,
	// wrong top-level tree shape, missing settings section, depth ceiling.
	ErrSyntax = errors.New("syntax error")

	// ErrTrailingBytes is returned when data remains after a record that
	// must end exactly at end of input.
	ErrTrailingBytes = errors.New("trailing bytes after record")
)

func syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
