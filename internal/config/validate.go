package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"companionforge/internal/formid"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePlugin(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.CatalogDB == "" {
		return fmt.Errorf("paths.catalog_db must be set (or export %s)", envCatalogPath)
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir must be set (or export %s)", envOutputDir)
	}
	return nil
}

func (c *Config) validatePlugin() error {
	name := c.Plugin.Name
	if name == "" {
		return errors.New("plugin.name must be set")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("plugin.name %q must be a file name, not a path", name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".esp", ".esm", ".esl":
	default:
		return fmt.Errorf("plugin.name %q must end in .esp, .esm or .esl", name)
	}
	switch c.Plugin.MastersOrder {
	case MastersLoadOrder, MastersAlphabetical:
	default:
		return fmt.Errorf("plugin.masters_order must be %q or %q, got %q", MastersLoadOrder, MastersAlphabetical, c.Plugin.MastersOrder)
	}
	if c.Plugin.FirstFormID < int(formid.FirstLocal) || c.Plugin.FirstFormID > int(formid.MaxLocal) {
		return fmt.Errorf("plugin.first_form_id must be between %#x and %#x", formid.FirstLocal, formid.MaxLocal)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
