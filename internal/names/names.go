// Package names generates the human-readable request identity tags that
// appear in logs and, prefixed with a fingerprint, in rate-limit log
// lines: "{short_hash}#{adjective}-{noun}".
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// adjectives and nouns are a small hand-authored word list in the
// adjective-noun request-tag convention; there is no shipped word list in
// the corpus to carry forward; see DESIGN.md.
var adjectives = []string{
	"quiet", "amber", "brisk", "calm", "drifting", "eager", "faint",
	"gentle", "hollow", "idle", "jagged", "keen", "lucid", "mellow",
	"nimble", "opal", "pale", "quick", "restless", "silent",
}

var nouns = []string{
	"heron", "otter", "falcon", "marten", "plover", "badger", "ibis",
	"lynx", "swift", "tern", "vole", "wren", "crane", "gecko", "stoat",
	"osprey", "civet", "shrike", "mink", "dunlin",
}

func pick(list []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		panic("names: crypto/rand unavailable: " + err.Error())
	}
	return list[n.Int64()]
}

// Generate returns a fresh "adjective-noun" request id.
func Generate() string {
	return fmt.Sprintf("%s-%s", pick(adjectives), pick(nouns))
}

// Identity formats the request identity tag logged alongside a render: the
// first 6 hex characters of the HMAC fingerprint, then the generated
// request id, joined by '#'.
func Identity(fingerprint [20]byte, requestID string) string {
	return fmt.Sprintf("%x#%s", fingerprint[:3], requestID)
}

// DemoIdentity formats the identity tag used by the fixed "/demo" sample,
// which has no real fingerprint to prefix.
func DemoIdentity(requestID string) string {
	return fmt.Sprintf("demo#%s", requestID)
}
