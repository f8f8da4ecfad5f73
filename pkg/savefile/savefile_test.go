package savefile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal pre-2.0 header: version, unused bool, three strings, difficulty,
// the boolean/string block, loaded_from, 16-bit build, allowed_commands, and
// an empty mod list.
func buildHeader() []byte {
	var buf []byte
	for _, c := range []uint16{1, 1, 110, 0} {
		buf = binary.LittleEndian.AppendUint16(buf, c)
	}
	buf = append(buf, 0)                     // unused bool
	buf = append(buf, 8)                     // campaign "freeplay"
	buf = append(buf, "freeplay"...)
	buf = append(buf, 4)                     // name "test"
	buf = append(buf, "test"...)
	buf = append(buf, 4)                     // base_mod "base"
	buf = append(buf, "base"...)
	buf = append(buf, 1)                     // difficulty
	buf = append(buf, 0, 0)                  // finished, player_won
	buf = append(buf, 0)                     // next_level ""
	buf = append(buf, 1, 0, 0, 0)            // remaining bools
	buf = append(buf, 1, 1, 109)             // loaded_from
	buf = binary.LittleEndian.AppendUint16(buf, 6321)
	buf = append(buf, 1) // allowed_commands
	buf = append(buf, 0) // no mods
	return buf
}

func buildArchive(t *testing.T, member string) []byte {
	t.Helper()
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	w, err := zw.Create(member)
	require.NoError(t, err)
	_, err = w.Write(buildHeader())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return out.Bytes()
}

func TestHeaderFromArchive(t *testing.T) {
	data := buildArchive(t, "mysave/level-init.dat")
	assert.True(t, IsArchive(data))

	raw, err := HeaderFromArchive(data)
	require.NoError(t, err)
	assert.Equal(t, buildHeader(), raw)
}

func TestHeaderFromArchivePrefersLevelInit(t *testing.T) {
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, name := range []string{"mysave/level.dat0", "mysave/level-init.dat"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		payload := buildHeader()
		if name == "mysave/level.dat0" {
			payload = append(payload, 0xEE) // distinguishable
		}
		_, err = w.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	raw, err := HeaderFromArchive(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, buildHeader(), raw)
}

func TestHeaderFromArchiveNoLevelData(t *testing.T) {
	data := buildArchive(t, "mysave/control.lua")
	_, err := HeaderFromArchive(data)
	assert.ErrorIs(t, err, ErrNoLevelDat)
}

func TestHeaderFromArchiveNotZip(t *testing.T) {
	_, err := HeaderFromArchive(buildHeader())
	assert.ErrorIs(t, err, ErrNotArchive)
}

func TestHeaderBytesZlib(t *testing.T) {
	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	_, err := zw.Write(buildHeader())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	raw, err := HeaderBytes(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, buildHeader(), raw)
}

func TestHeaderBytesPlainPassThrough(t *testing.T) {
	raw, err := HeaderBytes(buildHeader())
	require.NoError(t, err)
	assert.Equal(t, buildHeader(), raw)
}

func TestDecodeHeaderEndToEnd(t *testing.T) {
	h, err := DecodeHeader(buildArchive(t, "mysave/level-init.dat"))
	require.NoError(t, err)
	assert.Equal(t, "freeplay", h.Campaign)
	assert.Equal(t, "base", h.BaseMod)
	assert.Equal(t, uint32(6321), h.LoadedFromBuild.Value)
	assert.Empty(t, h.Mods)
}
