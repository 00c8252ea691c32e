// Package payload implements the request wire format: Base65536 decoding,
// HMAC verification, and the QuakePrefectureData/TsunamiData message
// types (spec §4.5/§6). protoc cannot be invoked in this environment, so
// the messages are hand-authored directly against
// google.golang.org/protobuf/encoding/protowire — the same module's
// low-level wire-format layer, used in place of generated code (see
// DESIGN.md).
package payload

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// AreaCodes is the repeated-uint32 submessage nested under each intensity
// or tsunami forecast level.
type AreaCodes struct {
	Codes []uint32
}

func (a *AreaCodes) marshal() []byte {
	var b []byte
	for _, c := range a.Codes {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c))
	}
	return b
}

func unmarshalAreaCodes(raw []byte) (AreaCodes, error) {
	var a AreaCodes
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return a, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return a, protowire.ParseError(n)
			}
			a.Codes = append(a.Codes, uint32(v))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return a, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return a, nil
}

// appendZigZag32 appends an int32 field, zig-zag encoded (sint32 wire
// semantics) so negative epicenter coordinates stay compact.
func appendZigZag32(b []byte, num protowire.Number, v int32) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func consumeZigZag32(b []byte) (int32, int) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, n
	}
	return int32(protowire.DecodeZigZag(v)), n
}

// Epicenter is a quake's optional epicenter marker, in tenths-of-a-degree
// fixed point (matching the original's lat_x10/lon_x10 fields).
type Epicenter struct {
	LatX10 int32
	LonX10 int32
}

func (e *Epicenter) marshal() []byte {
	var b []byte
	b = appendZigZag32(b, 1, e.LatX10)
	b = appendZigZag32(b, 2, e.LonX10)
	return b
}

func (e *Epicenter) unmarshal(raw []byte) error {
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := consumeZigZag32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e.LatX10 = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := consumeZigZag32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e.LonX10 = v
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
