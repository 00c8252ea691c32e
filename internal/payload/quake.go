package payload

import "google.golang.org/protobuf/encoding/protowire"

// QuakePrefectureData is the decoded body of a V0 intensity render
// request: an occurrence time, an optional epicenter, and per-level lists
// of affected area codes.
type QuakePrefectureData struct {
	Time      uint64
	Epicenter *Epicenter

	One, Two, Three, Four             *AreaCodes
	FiveMinus, FivePlus                *AreaCodes
	SixMinus, SixPlus                  *AreaCodes
	Seven                              *AreaCodes
}

const (
	fieldQuakeTime      protowire.Number = 1
	fieldQuakeEpicenter protowire.Number = 2
	fieldQuakeOne       protowire.Number = 3
	fieldQuakeTwo       protowire.Number = 4
	fieldQuakeThree     protowire.Number = 5
	fieldQuakeFour      protowire.Number = 6
	fieldQuakeFiveMinus protowire.Number = 7
	fieldQuakeFivePlus  protowire.Number = 8
	fieldQuakeSixMinus  protowire.Number = 9
	fieldQuakeSixPlus   protowire.Number = 10
	fieldQuakeSeven     protowire.Number = 11
)

// Marshal encodes q into its wire-format bytes.
func (q *QuakePrefectureData) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldQuakeTime, protowire.VarintType)
	b = protowire.AppendVarint(b, q.Time)

	if q.Epicenter != nil {
		b = protowire.AppendTag(b, fieldQuakeEpicenter, protowire.BytesType)
		b = protowire.AppendBytes(b, q.Epicenter.marshal())
	}

	appendLevel := func(num protowire.Number, ac *AreaCodes) {
		if ac == nil {
			return
		}
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, ac.marshal())
	}
	appendLevel(fieldQuakeOne, q.One)
	appendLevel(fieldQuakeTwo, q.Two)
	appendLevel(fieldQuakeThree, q.Three)
	appendLevel(fieldQuakeFour, q.Four)
	appendLevel(fieldQuakeFiveMinus, q.FiveMinus)
	appendLevel(fieldQuakeFivePlus, q.FivePlus)
	appendLevel(fieldQuakeSixMinus, q.SixMinus)
	appendLevel(fieldQuakeSixPlus, q.SixPlus)
	appendLevel(fieldQuakeSeven, q.Seven)

	return b
}

// Unmarshal decodes raw into q, which must be zero-valued on entry.
func (q *QuakePrefectureData) Unmarshal(raw []byte) error {
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case fieldQuakeTime:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			q.Time = v
			b = b[n:]
		case fieldQuakeEpicenter:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e := &Epicenter{}
			if err := e.unmarshal(sub); err != nil {
				return err
			}
			q.Epicenter = e
			b = b[n:]
		case fieldQuakeOne, fieldQuakeTwo, fieldQuakeThree, fieldQuakeFour,
			fieldQuakeFiveMinus, fieldQuakeFivePlus, fieldQuakeSixMinus, fieldQuakeSixPlus, fieldQuakeSeven:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			ac, err := unmarshalAreaCodes(sub)
			if err != nil {
				return err
			}
			switch num {
			case fieldQuakeOne:
				q.One = &ac
			case fieldQuakeTwo:
				q.Two = &ac
			case fieldQuakeThree:
				q.Three = &ac
			case fieldQuakeFour:
				q.Four = &ac
			case fieldQuakeFiveMinus:
				q.FiveMinus = &ac
			case fieldQuakeFivePlus:
				q.FivePlus = &ac
			case fieldQuakeSixMinus:
				q.SixMinus = &ac
			case fieldQuakeSixPlus:
				q.SixPlus = &ac
			case fieldQuakeSeven:
				q.Seven = &ac
			}
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
