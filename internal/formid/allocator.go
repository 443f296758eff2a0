package formid

import (
	"errors"
	"fmt"

	"companionforge/internal/faults"
)

// Allocator issues identifiers for one plugin namespace. It is not safe for
// concurrent use; a build owns exactly one allocator.
type Allocator struct {
	plugin string
	first  uint32
	next   uint32
	limit  uint32
}

// NewAllocator returns an allocator for plugin starting at FirstLocal.
func NewAllocator(plugin string) (*Allocator, error) {
	return NewAllocatorRange(plugin, FirstLocal, MaxLocal)
}

// NewAllocatorRange returns an allocator issuing locals in [first, limit].
func NewAllocatorRange(plugin string, first, limit uint32) (*Allocator, error) {
	if plugin == "" {
		return nil, errors.New("allocator requires a plugin name")
	}
	if first == 0 || first > limit || limit > MaxLocal {
		return nil, fmt.Errorf("allocator range %06X-%06X is invalid", first, limit)
	}
	return &Allocator{plugin: plugin, first: first, next: first, limit: limit}, nil
}

// Plugin returns the namespace this allocator issues into.
func (a *Allocator) Plugin() string {
	return a.plugin
}

// Next issues a previously unissued identifier. Exhausting the namespace is
// fatal for the build.
func (a *Allocator) Next() (ID, error) {
	if a.next == 0 || a.next > a.limit {
		return ID{}, faults.Wrap(faults.ErrNamespaceExhausted, "allocate", a.plugin,
			fmt.Sprintf("no local ids left above %06X", a.limit), nil)
	}
	id := ID{Plugin: a.plugin, Local: a.next}
	a.next++
	return id, nil
}

// Peek returns the identifier Next would issue without consuming it.
func (a *Allocator) Peek() (ID, bool) {
	if a.next == 0 || a.next > a.limit {
		return ID{}, false
	}
	return ID{Plugin: a.plugin, Local: a.next}, true
}

// Issued reports how many identifiers have been handed out.
func (a *Allocator) Issued() int {
	return int(a.next - a.first)
}
