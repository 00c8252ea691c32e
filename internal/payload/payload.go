package payload

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // mandated by the wire format, not a design choice
	"fmt"
)

// SupportedVersion is the only wire-format version byte this build
// understands. A mismatch is a hard rejection, not a silent best-effort.
const SupportedVersion byte = 0

// minPayloadLength is 1 version byte + 20 HMAC bytes; a body of zero
// length is legal past that point.
const minPayloadLength = 21

// Decode splits a decoded request payload (already Base65536- and
// percent-decoded) into its version byte, the HMAC it carries, and the
// remaining body (spec §4.5).
func Decode(raw []byte) (version byte, hmacGiven [20]byte, body []byte, err error) {
	if len(raw) < minPayloadLength {
		return 0, hmacGiven, nil, fmt.Errorf("payload: minimum length is %d bytes, got %d", minPayloadLength, len(raw))
	}
	version = raw[0]
	copy(hmacGiven[:], raw[1:21])
	body = raw[21:]
	return version, hmacGiven, body, nil
}

// ComputeHMAC returns the HMAC-SHA1 of body under key.
func ComputeHMAC(key, body []byte) [20]byte {
	mac := hmac.New(sha1.New, key)
	mac.Write(body)
	var out [20]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// VerifyHMAC reports whether given matches the HMAC-SHA1 of body under
// key, in constant time.
func VerifyHMAC(key, body []byte, given [20]byte) bool {
	computed := ComputeHMAC(key, body)
	return hmac.Equal(computed[:], given[:])
}
