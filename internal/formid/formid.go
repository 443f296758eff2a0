package formid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FirstLocal is the first local number handed out to new records.
	// Lower values are reserved by the engine.
	FirstLocal uint32 = 0x800
	// MaxLocal is the largest local number that fits the 24-bit field.
	MaxLocal uint32 = 0xFFFFFF
)

// ID identifies a record by owning plugin and local number.
type ID struct {
	Plugin string
	Local  uint32
}

// New returns an ID for the given plugin and local number.
func New(plugin string, local uint32) ID {
	return ID{Plugin: plugin, Local: local}
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.Plugin == "" && id.Local == 0
}

// String renders the ID as "00080A:Plugin.esp".
func (id ID) String() string {
	if id.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%06X:%s", id.Local, id.Plugin)
}

// Hex renders the local number as eight hex digits, the form used in
// generated script names.
func (id ID) Hex() string {
	return fmt.Sprintf("%08X", id.Local)
}

// Parse reads the "00080A:Plugin.esp" form produced by String.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	local, plugin, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(plugin) == "" {
		return ID{}, fmt.Errorf("parse form id %q: expected LOCAL:Plugin", raw)
	}
	value, err := strconv.ParseUint(strings.TrimSpace(local), 16, 32)
	if err != nil {
		return ID{}, fmt.Errorf("parse form id %q: %w", raw, err)
	}
	if uint32(value) > MaxLocal {
		return ID{}, fmt.Errorf("parse form id %q: local number exceeds 24 bits", raw)
	}
	return ID{Plugin: strings.TrimSpace(plugin), Local: uint32(value)}, nil
}
