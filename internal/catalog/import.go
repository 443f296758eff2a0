package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Listing is the on-disk seed format for a catalog.
type Listing struct {
	LoadOrder []string        `toml:"load_order" yaml:"load_order"`
	Records   []ListingRecord `toml:"records" yaml:"records"`
}

// ListingRecord is one definition in a Listing.
type ListingRecord struct {
	Kind      string `toml:"kind" yaml:"kind"`
	EditorID  string `toml:"editor_id" yaml:"editor_id"`
	FormID    string `toml:"form_id" yaml:"form_id"`
	DefinedIn string `toml:"defined_in" yaml:"defined_in"`
}

// ReadListing decodes a listing file; the extension picks TOML or YAML.
func ReadListing(path string) (Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Listing{}, fmt.Errorf("read listing: %w", err)
	}
	var listing Listing
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&listing); err != nil {
			return Listing{}, fmt.Errorf("parse listing %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&listing); err != nil {
			return Listing{}, fmt.Errorf("parse listing %s: %w", path, err)
		}
	default:
		return Listing{}, fmt.Errorf("listing %s: unsupported extension (want .toml, .yaml or .yml)", path)
	}
	return listing, nil
}

// Entries converts the listing into catalog entries, validating kinds and
// form ids.
func (l Listing) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(l.Records))
	for i, r := range l.Records {
		kind, err := record.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		if strings.TrimSpace(r.EditorID) == "" {
			return nil, fmt.Errorf("records[%d]: editor_id is required", i)
		}
		id, err := formid.Parse(r.FormID)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		definedIn := strings.TrimSpace(r.DefinedIn)
		if definedIn == "" {
			definedIn = id.Plugin
		}
		entries = append(entries, Entry{ID: id, Kind: kind, EditorID: strings.TrimSpace(r.EditorID), DefinedIn: definedIn})
	}
	return entries, nil
}

// Memory builds an in-memory catalog from the listing.
func (l Listing) Memory() (*Memory, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	return NewMemory(l.LoadOrder...).Add(entries...), nil
}

// Import replaces the catalog contents with the listing in one transaction.
// Plugins referenced by records but absent from load_order are appended in
// first-seen order.
func (s *Store) Import(ctx context.Context, listing Listing) (int, error) {
	entries, err := listing.Entries()
	if err != nil {
		return 0, err
	}
	mem := NewMemory(listing.LoadOrder...).Add(entries...)
	order, _ := mem.LoadOrder(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM records", "DELETE FROM plugins"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("clear catalog: %w", err)
		}
	}
	for i, name := range order {
		if _, err := tx.ExecContext(ctx, "INSERT INTO plugins (name, load_index) VALUES (?, ?)", name, i); err != nil {
			return 0, fmt.Errorf("insert plugin %s: %w", name, err)
		}
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO records (kind, editor_id, origin_plugin, local_id, defined_in) VALUES (?, ?, ?, ?, ?)`,
			e.Kind.String(), e.EditorID, e.ID.Plugin, int64(e.ID.Local), e.DefinedIn,
		); err != nil {
			return 0, fmt.Errorf("insert %s %q: %w", e.Kind, e.EditorID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(entries), nil
}
