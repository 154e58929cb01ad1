// Package slug derives URL-safe public identifiers for listings.
package slug

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// FallbackToken is used when a name contains nothing slug-worthy.
	FallbackToken = "cabinet"

	// SuffixLength is the length of the random base-36 suffix. 36^5 gives
	// roughly 6e7 combinations, and the caller still verifies uniqueness
	// against the store with a retry.
	SuffixLength = 5
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// stripDiacritics removes combining marks after NFD decomposition, so
// "Fès" becomes "Fes".
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Base converts a display name into a lowercase ASCII slug without a
// suffix: diacritics stripped, every run of non [a-z0-9] collapsed to a
// single hyphen, no leading or trailing hyphen. Names that reduce to
// nothing yield FallbackToken so the path segment is never empty.
func Base(name string) string {
	ascii, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		ascii = name
	}
	ascii = strings.ToLower(ascii)

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return FallbackToken
	}
	return s
}

// Make returns a full slug: Base(name) plus a random base-36 suffix.
// Callers retry with a fresh Make on a uniqueness violation.
func Make(name string) string {
	return Base(name) + "-" + randomSuffix(SuffixLength)
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}
