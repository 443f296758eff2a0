package catalog

import (
	"context"
	"fmt"
	"sort"

	"companionforge/internal/record"
)

// Memory is an in-memory Catalog.
type Memory struct {
	order   []string
	index   map[string]int
	entries []Entry
}

// NewMemory returns a catalog with the given load order, lowest priority first.
func NewMemory(loadOrder ...string) *Memory {
	m := &Memory{index: make(map[string]int)}
	for _, name := range loadOrder {
		m.addPlugin(name)
	}
	return m
}

func (m *Memory) addPlugin(name string) {
	if _, ok := m.index[name]; ok {
		return
	}
	m.index[name] = len(m.order)
	m.order = append(m.order, name)
}

// Add records a definition. DefinedIn defaults to the plugin of the id and is
// appended to the load order when unknown.
func (m *Memory) Add(entries ...Entry) *Memory {
	for _, e := range entries {
		if e.DefinedIn == "" {
			e.DefinedIn = e.ID.Plugin
		}
		m.addPlugin(e.ID.Plugin)
		m.addPlugin(e.DefinedIn)
		m.entries = append(m.entries, e)
	}
	return m
}

func (m *Memory) Lookup(_ context.Context, kind record.Kind, editorID string) (Entry, bool, error) {
	best := -1
	var found Entry
	for _, e := range m.entries {
		if e.Kind != kind || e.EditorID != editorID {
			continue
		}
		if prio := m.index[e.DefinedIn]; prio > best {
			best = prio
			found = e
		}
	}
	return found, best >= 0, nil
}

func (m *Memory) List(_ context.Context, kind record.Kind) ([]Entry, error) {
	var matches []Entry
	for _, e := range m.entries {
		if e.Kind == kind {
			matches = append(matches, e)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := m.index[matches[i].DefinedIn], m.index[matches[j].DefinedIn]
		if pi != pj {
			return pi > pj
		}
		return matches[i].EditorID < matches[j].EditorID
	})
	return winning(matches), nil
}

func (m *Memory) LoadOrder(context.Context) ([]string, error) {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}

// winning keeps the first occurrence of each identifier from a list sorted
// highest priority first.
func winning(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		key := fmt.Sprintf("%s/%s", e.Kind, e.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
