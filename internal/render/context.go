// Package render defines the runtime request entities the worker draws
// from: seismic intensity reports and tsunami forecasts, plus the
// Fingerprint type that threads through the cache and rate limiter.
package render

import "time"

// Fingerprint is the 20-byte HMAC-SHA1 of a request body. It doubles as
// the render cache key and the rate-limit key (spec §4.5/§9) — there is
// no separate identifier for "this exact request" anywhere in the
// pipeline.
type Fingerprint [20]byte

// IntensityLevel indexes the nine JMA seismic intensity buckets: 1 through
// 4, a lower/upper split at 5 and 6, and 7.
type IntensityLevel int

const (
	Intensity1 IntensityLevel = iota
	Intensity2
	Intensity3
	Intensity4
	Intensity5Minus
	Intensity5Plus
	Intensity6Minus
	Intensity6Plus
	Intensity7
)

// IntensityLevels lists every level in ascending severity order, for
// callers that need to range over the whole set deterministically.
var IntensityLevels = []IntensityLevel{
	Intensity1, Intensity2, Intensity3, Intensity4,
	Intensity5Minus, Intensity5Plus, Intensity6Minus, Intensity6Plus, Intensity7,
}

// Epicenter is an optional marker position in WGS84 degrees.
type Epicenter struct {
	Lat, Lon float64
}

// Context is the runtime entity the worker draws from: occurrence time,
// an optional epicenter, and a loggable request identity. V0Intensity and
// Tsunami are its two variants.
type Context interface {
	Occurrence() time.Time
	RequestIdentity() string
}

// V0Intensity is a seismic intensity report: per-level lists of area
// codes for the draw step to fill.
type V0Intensity struct {
	Time      time.Time
	Epicenter *Epicenter
	AreaCodes map[IntensityLevel][]uint16
	Identity  string
}

func (c V0Intensity) Occurrence() time.Time   { return c.Time }
func (c V0Intensity) RequestIdentity() string { return c.Identity }

// Tsunami is a tsunami-forecast report. Unlike intensity, forecast levels
// are open-ended rather than a fixed enum (spec §4 supplemented
// features), so Levels is keyed by the level label as issued upstream.
type Tsunami struct {
	Time     time.Time
	Levels   map[string][]uint16
	Identity string
}

func (c Tsunami) Occurrence() time.Time   { return c.Time }
func (c Tsunami) RequestIdentity() string { return c.Identity }
