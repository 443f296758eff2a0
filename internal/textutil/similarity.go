package textutil

import "sort"

// SuggestionThreshold is the minimum similarity for Closest to offer a match.
const SuggestionThreshold = 0.5

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Closest returns up to limit candidates whose similarity to query reaches
// threshold, best first. Ties keep candidate order.
func Closest(query string, candidates []string, threshold float64, limit int) []string {
	target := NewFingerprint(query)
	if target == nil || limit <= 0 {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		if score := CosineSimilarity(target, NewFingerprint(c)); score >= threshold {
			matches = append(matches, scored{c, score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}
