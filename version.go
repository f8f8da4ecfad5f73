package factoriodat

import (
	"encoding/json"
	"fmt"
)

// Version is a full four-component game version, as stored at the head of
// mod-settings and save files.
type Version struct {
	Main      uint16
	Major     uint16
	Minor     uint16
	Developer uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Main, v.Major, v.Minor, v.Developer)
}

// MarshalJSON renders the dotted form, which is what dump output wants.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// Uint64 packs the version into one integer, Main in the highest 16 bits and
// Developer in the lowest.
func (v Version) Uint64() uint64 {
	return uint64(v.Developer) |
		uint64(v.Minor)<<16 |
		uint64(v.Major)<<32 |
		uint64(v.Main)<<48
}

// VersionFromUint64 is the inverse of Uint64.
func VersionFromUint64(u uint64) Version {
	return Version{
		Main:      uint16(u >> 48),
		Major:     uint16(u >> 32),
		Minor:     uint16(u >> 16),
		Developer: uint16(u),
	}
}

func (c *Cursor) NextVersion() (Version, error) {
	var v Version
	var err error
	if v.Main, err = c.NextUint16(); err != nil {
		return v, err
	}
	if v.Major, err = c.NextUint16(); err != nil {
		return v, err
	}
	if v.Minor, err = c.NextUint16(); err != nil {
		return v, err
	}
	if v.Developer, err = c.NextUint16(); err != nil {
		return v, err
	}
	return v, nil
}

func (w *Writer) WriteVersion(v Version) {
	w.WriteUint16(v.Main)
	w.WriteUint16(v.Major)
	w.WriteUint16(v.Minor)
	w.WriteUint16(v.Developer)
}

// Version48 is the compact three-component version used for per-mod versions
// and the loaded-from field, each component space-optimized on the wire.
type Version48 struct {
	Main  uint16
	Major uint16
	Minor uint16
}

func (v Version48) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Main, v.Major, v.Minor)
}

func (v Version48) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (c *Cursor) NextVersion48() (Version48, error) {
	var v Version48
	var err error
	if v.Main, err = c.NextUint16Optim(); err != nil {
		return v, err
	}
	if v.Major, err = c.NextUint16Optim(); err != nil {
		return v, err
	}
	if v.Minor, err = c.NextUint16Optim(); err != nil {
		return v, err
	}
	return v, nil
}

// BuildNumber is a 16- or 32-bit build field. The width is not self-describing:
// the containing save header selects it from its own format version, so the
// decoded value carries its width along.
type BuildNumber struct {
	Value uint32
	Wide  bool // true when read as 32-bit (format version 2.0 and later)
}

func (b BuildNumber) String() string {
	return fmt.Sprintf("%d", b.Value)
}

func (b BuildNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value)
}
