// Package savefile locates and inflates the level data inside a Factorio
// save, producing the raw header bytes the root codec decodes. A full save is
// a zip archive; the header lives at the front of the level-init.dat (or
// level.dat0) member. Already-extracted members, plain or zlib-wrapped, are
// accepted too.
package savefile

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/rawbytedev/factoriodat"
)

var (
	ErrNotArchive = errors.New("not a zip archive")
	ErrNoLevelDat = errors.New("no level data member in archive")
)

// level member base names, in preference order. level-init.dat is written
// once at save creation; level.dat0 is the first chunk of the live level.
var levelNames = []string{"level-init.dat", "level.dat0", "level.dat"}

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// IsArchive reports whether data looks like a zip save rather than an
// extracted .dat member.
func IsArchive(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// HeaderFromArchive opens a save archive and returns the inflated bytes of
// its level data member.
func HeaderFromArchive(data []byte) ([]byte, error) {
	if !IsArchive(data) {
		return nil, ErrNotArchive
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	// saves deflate their members; inflate with klauspost's flate
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	for _, name := range levelNames {
		for _, f := range zr.File {
			if path.Base(f.Name) != name {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, ErrNoLevelDat
}

// HeaderBytes normalizes any supported input, a whole save archive, a
// zlib-wrapped level member, or a plain .dat buffer, to raw header bytes.
func HeaderBytes(data []byte) ([]byte, error) {
	if IsArchive(data) {
		return HeaderFromArchive(data)
	}
	if isZlib(data) {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return data, nil
}

// isZlib checks the two-byte zlib header: deflate method plus a valid
// check value. A raw save header starts with the version's main component,
// which never collides with 0x78 in practice.
func isZlib(data []byte) bool {
	if len(data) < 2 || data[0] != 0x78 {
		return false
	}
	return (uint16(data[0])<<8|uint16(data[1]))%31 == 0
}

// DecodeHeader is the end-to-end convenience: normalize input, then decode
// the save header with the root codec.
func DecodeHeader(data []byte) (*factoriodat.SaveHeader, error) {
	raw, err := HeaderBytes(data)
	if err != nil {
		return nil, err
	}
	return factoriodat.DecodeSaveHeader(raw)
}
