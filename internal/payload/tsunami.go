package payload

import "google.golang.org/protobuf/encoding/protowire"

// TsunamiLevel is the four-step 気象庁 tsunami forecast scale. Kept open
// rather than closed: TsunamiData stores it as a map so an unrecognized
// future level still round-trips (spec §4 supplemented features).
type TsunamiLevel uint32

const (
	LevelForecast      TsunamiLevel = 1 // 津波予報 (minor sea-level change)
	LevelAdvisory      TsunamiLevel = 2 // 津波注意報
	LevelWarning       TsunamiLevel = 3 // 津波警報
	LevelMajorWarning  TsunamiLevel = 4 // 大津波警報
)

// LevelLabel returns the upstream Japanese label for a known level, or
// "" for one this build doesn't recognize — callers should still render
// the area codes, just without a legend label.
func LevelLabel(l TsunamiLevel) string {
	switch l {
	case LevelForecast:
		return "津波予報(若干の海面変動)"
	case LevelAdvisory:
		return "津波注意報"
	case LevelWarning:
		return "津波警報"
	case LevelMajorWarning:
		return "大津波警報"
	default:
		return ""
	}
}

// TsunamiData is the decoded body of a tsunami-forecast render request:
// an occurrence time and a level -> area-code-list map.
type TsunamiData struct {
	Time   uint64
	Levels map[TsunamiLevel]*AreaCodes
}

const (
	fieldTsunamiTime   protowire.Number = 1
	fieldTsunamiLevels protowire.Number = 2
)

const (
	fieldLevelEntryLevel protowire.Number = 1
	fieldLevelEntryCodes protowire.Number = 2
)

// Marshal encodes t into its wire-format bytes. Each level is emitted as
// its own length-delimited LevelEntry{level, codes} submessage under
// field 2, repeated once per populated level.
func (t *TsunamiData) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldTsunamiTime, protowire.VarintType)
	b = protowire.AppendVarint(b, t.Time)

	for level, ac := range t.Levels {
		if ac == nil {
			continue
		}
		var entry []byte
		entry = protowire.AppendTag(entry, fieldLevelEntryLevel, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(level))
		entry = protowire.AppendTag(entry, fieldLevelEntryCodes, protowire.BytesType)
		entry = protowire.AppendBytes(entry, ac.marshal())

		b = protowire.AppendTag(b, fieldTsunamiLevels, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// Unmarshal decodes raw into t, allocating the Levels map first if it is
// nil.
func (t *TsunamiData) Unmarshal(raw []byte) error {
	if t.Levels == nil {
		t.Levels = make(map[TsunamiLevel]*AreaCodes)
	}

	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case fieldTsunamiTime:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			t.Time = v
			b = b[n:]
		case fieldTsunamiLevels:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			level, ac, err := unmarshalLevelEntry(sub)
			if err != nil {
				return err
			}
			t.Levels[level] = &ac
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

func unmarshalLevelEntry(raw []byte) (TsunamiLevel, AreaCodes, error) {
	var level TsunamiLevel
	var codes AreaCodes

	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, codes, protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case fieldLevelEntryLevel:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, codes, protowire.ParseError(n)
			}
			level = TsunamiLevel(v)
			b = b[n:]
		case fieldLevelEntryCodes:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, codes, protowire.ParseError(n)
			}
			ac, err := unmarshalAreaCodes(sub)
			if err != nil {
				return 0, codes, err
			}
			codes = ac
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return 0, codes, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return level, codes, nil
}
