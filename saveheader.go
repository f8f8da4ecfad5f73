package factoriodat

import "fmt"

// SaveHeaderMod is one entry of the save's mod list.
type SaveHeaderMod struct {
	Name    string
	Version Version48
	CRC     uint32
}

func (m SaveHeaderMod) String() string {
	return fmt.Sprintf("%s %s", m.Name, m.Version)
}

// SaveHeader is the decoded head of a level-init.dat / level.dat0 buffer.
// Read-only: the header is followed by further save sections this package
// does not model, so there is no re-encoder and no trailing-data check.
type SaveHeader struct {
	FactorioVersion Version
	// Campaign name, e.g. "freeplay" or "transport-belt-madness".
	Campaign string
	// Name of the campaign level.
	Name string
	// Name of the base mod, normally "base".
	BaseMod    string
	Difficulty uint8
	Finished   bool
	// Whether the victory condition has been satisfied.
	PlayerWon bool
	// Name of the subsequent campaign level.
	NextLevel             string
	CanContinue           bool
	FinishedButContinuing bool
	// Whether a replay is being recorded.
	SavingReplay              bool
	AllowNonAdminDebugOptions bool
	// Version of the game this save was last loaded in.
	LoadedFrom Version48
	// Build of the game this save was last loaded in; 16-bit before 2.0,
	// 32-bit from 2.0 on.
	LoadedFromBuild BuildNumber
	AllowedCommands bool
	Mods            []SaveHeaderMod
}

// DecodeSaveHeader parses the strictly sequential header layout. The
// format-version branch: from 2.0 on the build number widens to 32 bits and
// four reserved bytes (observed as 00 00 A0 00, meaning unknown) precede the
// mod count; they are skipped, not validated.
func DecodeSaveHeader(data []byte) (*SaveHeader, error) {
	c := NewCursor(data)
	h := &SaveHeader{}
	var err error

	if h.FactorioVersion, err = c.NextVersion(); err != nil {
		return nil, err
	}

	// one unused bool
	if _, err = c.NextBool(); err != nil {
		return nil, err
	}

	if h.Campaign, err = c.NextStringSaveHeader(); err != nil {
		return nil, err
	}
	if h.Name, err = c.NextStringSaveHeader(); err != nil {
		return nil, err
	}
	if h.BaseMod, err = c.NextStringSaveHeader(); err != nil {
		return nil, err
	}
	if h.Difficulty, err = c.NextByte(); err != nil {
		return nil, err
	}
	if h.Finished, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.PlayerWon, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.NextLevel, err = c.NextStringSaveHeader(); err != nil {
		return nil, err
	}
	if h.CanContinue, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.FinishedButContinuing, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.SavingReplay, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.AllowNonAdminDebugOptions, err = c.NextBool(); err != nil {
		return nil, err
	}
	if h.LoadedFrom, err = c.NextVersion48(); err != nil {
		return nil, err
	}

	wide := h.FactorioVersion.Main >= 2
	if wide {
		v, err := c.NextUint32()
		if err != nil {
			return nil, err
		}
		h.LoadedFromBuild = BuildNumber{Value: v, Wide: true}
	} else {
		v, err := c.NextUint16()
		if err != nil {
			return nil, err
		}
		h.LoadedFromBuild = BuildNumber{Value: uint32(v)}
	}

	if h.AllowedCommands, err = c.NextBool(); err != nil {
		return nil, err
	}

	// 2.0 introduced four bytes here, purpose unknown
	if wide {
		if _, err := c.take(4); err != nil {
			return nil, err
		}
	}

	numMods, err := c.NextUint32Optim()
	if err != nil {
		return nil, err
	}
	h.Mods = make([]SaveHeaderMod, 0, int(min(numMods, 1024)))
	for i := uint32(0); i < numMods; i++ {
		var m SaveHeaderMod
		if m.Name, err = c.NextStringSaveHeader(); err != nil {
			return nil, err
		}
		if m.Version, err = c.NextVersion48(); err != nil {
			return nil, err
		}
		if m.CRC, err = c.NextUint32(); err != nil {
			return nil, err
		}
		h.Mods = append(h.Mods, m)
	}

	return h, nil
}
