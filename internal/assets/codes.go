package assets

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

// areaPrefectureCodesCSV is a checked-in area-code -> prefecture-code
// table: one "area_code,prefecture_code" pair per line. The original
// ships this as a generated `codes` module built from a master
// administrative-boundary registry that isn't part of this retrieval
// pack; this is a small hand-maintained table covering the sample area
// codes exercised elsewhere in this package (see DESIGN.md for why it's
// a stand-in rather than the authoritative table).
//
//go:embed area_prefecture_codes.csv
var areaPrefectureCodesCSV string

// LoadAreaToPrefecture parses the embedded area/prefecture code table.
func LoadAreaToPrefecture() (map[uint16]uint16, error) {
	out := make(map[uint16]uint16)

	scanner := bufio.NewScanner(strings.NewReader(areaPrefectureCodesCSV))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("assets: malformed area/prefecture line %q", line)
		}

		area, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("assets: bad area code in %q: %w", line, err)
		}
		pref, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("assets: bad prefecture code in %q: %w", line, err)
		}

		out[uint16(area)] = uint16(pref)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("assets: scanning area/prefecture table: %w", err)
	}

	return out, nil
}
