package plugin

import (
	"slices"
	"strings"
)

// MastersPolicy orders the masters a package depends on.
type MastersPolicy interface {
	Order(masters []string) []string
}

type loadOrderPolicy struct {
	index map[string]int
}

// LoadOrder orders masters by their position in order. Masters absent from
// order follow in alphabetical order.
func LoadOrder(order []string) MastersPolicy {
	index := make(map[string]int, len(order))
	for i, name := range order {
		key := strings.ToLower(name)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	return loadOrderPolicy{index: index}
}

func (p loadOrderPolicy) Order(masters []string) []string {
	out := slices.Clone(masters)
	slices.SortStableFunc(out, func(a, b string) int {
		ia, okA := p.index[strings.ToLower(a)]
		ib, okB := p.index[strings.ToLower(b)]
		switch {
		case okA && okB:
			return ia - ib
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		}
	})
	return out
}

type alphabeticalPolicy struct{}

// Alphabetical orders masters by case-insensitive name.
func Alphabetical() MastersPolicy {
	return alphabeticalPolicy{}
}

func (alphabeticalPolicy) Order(masters []string) []string {
	out := slices.Clone(masters)
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
