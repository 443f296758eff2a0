package textutil

import (
	"math"
	"strings"
)

// Fingerprint represents a trigram-frequency vector for similarity comparison.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text is blank.
func NewFingerprint(text string) *Fingerprint {
	grams := Trigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		grams: counts,
		norm:  math.Sqrt(norm),
	}
}

// Trigrams splits lowercased text into overlapping three-rune windows, with
// the text padded by one space on each side.
func Trigrams(text string) []string {
	trimmed := strings.TrimSpace(strings.ToLower(text))
	if trimmed == "" {
		return nil
	}
	runes := []rune(" " + trimmed + " ")
	if len(runes) < 3 {
		return []string{string(runes)}
	}
	out := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		out = append(out, string(runes[i:i+3]))
	}
	return out
}

// GramCount returns the number of unique trigrams in the fingerprint.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
