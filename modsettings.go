package factoriodat

import "errors"

// ModSettings is the decoded content of a mod-settings.dat file: the game
// version that wrote it plus the three settings sections.
type ModSettings struct {
	Version        Version
	Startup        PropertyTree
	RuntimeGlobal  PropertyTree
	RuntimePerUser PropertyTree
}

// settings section keys, in the order the encoder writes them.
var settingsSections = []string{"startup", "runtime-global", "runtime-per-user"}

// DecodeModSettings parses a complete mod-settings.dat buffer. The buffer
// must contain exactly one record: leftover bytes fail with ErrTrailingBytes.
func DecodeModSettings(data []byte) (*ModSettings, error) {
	c := NewCursor(data)

	// 8 bytes of game version
	version, err := c.NextVersion()
	if err != nil {
		return nil, err
	}

	// one bool, always written false
	sentinel, err := c.NextBool()
	if err != nil {
		return nil, err
	}
	if sentinel {
		return nil, syntaxErr("after-version sentinel expected to be false, got true")
	}

	// the three sections live in one top-level dictionary
	top, err := c.NextPropertyTree()
	if err != nil {
		return nil, err
	}
	if top.Type() != TypeDictionary {
		return nil, syntaxErr("top-level property tree is %s, want dictionary", top.Type())
	}

	ms := &ModSettings{Version: version}
	for i, section := range settingsSections {
		v, ok := top.Get(section)
		if !ok {
			return nil, syntaxErr("settings section %q missing", section)
		}
		// extra top-level entries beyond the three sections are ignored
		switch i {
		case 0:
			ms.Startup = v
		case 1:
			ms.RuntimeGlobal = v
		case 2:
			ms.RuntimePerUser = v
		}
	}

	// the record must end exactly at end of input
	if _, err := c.PeekByte(); err == nil {
		return nil, ErrTrailingBytes
	} else if !errors.Is(err, ErrEof) {
		return nil, err
	}
	return ms, nil
}

// Encode serializes the settings back to mod-settings.dat bytes. The three
// sections are always written in the fixed order startup, runtime-global,
// runtime-per-user regardless of the order they were decoded in, so one
// decode/encode cycle canonicalizes a file and further cycles are
// byte-stable.
func (ms *ModSettings) Encode() ([]byte, error) {
	w := NewWriter()
	w.WriteVersion(ms.Version)
	w.WriteBool(false)

	top, err := NewDictionary(
		DictEntry{Key: "startup", Value: ms.Startup},
		DictEntry{Key: "runtime-global", Value: ms.RuntimeGlobal},
		DictEntry{Key: "runtime-per-user", Value: ms.RuntimePerUser},
	)
	if err != nil {
		return nil, err
	}
	w.WritePropertyTree(top)
	return w.Bytes(), nil
}
