package payload

import (
	"fmt"
	"strings"
)

// Base65536 packs bytes two at a time into single Unicode codepoints,
// so a request body survives as one compact, URL-embeddable string. No
// base65536 package exists anywhere in the retrieved pack or its
// manifests (grep confirmed); this is a from-scratch codec grounded on
// the original crate's call-site semantics in renderer/src/web/mod.rs
// (decode a percent-decoded path segment into raw bytes, rejecting
// anything malformed) rather than a byte-for-byte port of the upstream
// Base65536 block table, which isn't available offline — see DESIGN.md.
//
// Two bytes map to one codepoint in the pairBlockBase plane; a single
// trailing byte (odd-length input) maps into the disjoint padBlockBase
// plane so the decoder can tell a final odd byte apart from a pair.
const (
	pairBlockBase rune = 0x40000
	pairBlockSize rune = 0x10000
	padBlockBase  rune = 0x50000
	padBlockSize  rune = 0x100
)

// EncodeBase65536 encodes data as a Base65536 string.
func EncodeBase65536(data []byte) string {
	var sb strings.Builder
	i := 0
	for ; i+1 < len(data); i += 2 {
		value := rune(data[i])<<8 | rune(data[i+1])
		sb.WriteRune(pairBlockBase + value)
	}
	if i < len(data) {
		sb.WriteRune(padBlockBase + rune(data[i]))
	}
	return sb.String()
}

// DecodeBase65536 reverses EncodeBase65536, rejecting any codepoint
// outside the two reserved planes and any padding codepoint that isn't
// the final rune.
func DecodeBase65536(s string) ([]byte, error) {
	runes := []rune(s)
	out := make([]byte, 0, len(runes)*2)

	for i, r := range runes {
		switch {
		case r >= pairBlockBase && r < pairBlockBase+pairBlockSize:
			value := r - pairBlockBase
			out = append(out, byte(value>>8), byte(value&0xFF))
		case r >= padBlockBase && r < padBlockBase+padBlockSize:
			if i != len(runes)-1 {
				return nil, fmt.Errorf("base65536: padding codepoint at position %d is not the final rune", i)
			}
			out = append(out, byte(r-padBlockBase))
		default:
			return nil, fmt.Errorf("base65536: codepoint U+%04X at position %d is outside the encodable range", r, i)
		}
	}
	return out, nil
}
