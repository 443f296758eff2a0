package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeContent(); err != nil {
		return err
	}
	c.normalizePlugin()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.CatalogDB) == "" {
		c.Paths.CatalogDB = envOr(envCatalogPath, defaultCatalogDB)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = envOr(envOutputDir, defaultOutputDir)
	}

	var err error
	if c.Paths.CatalogDB, err = expandPath(strings.TrimSpace(c.Paths.CatalogDB)); err != nil {
		return fmt.Errorf("paths.catalog_db: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeContent() error {
	manifest := strings.TrimSpace(c.Content.Manifest)
	if manifest == "" {
		c.Content.Manifest = ""
		return nil
	}
	expanded, err := expandPath(manifest)
	if err != nil {
		return fmt.Errorf("content.manifest: %w", err)
	}
	c.Content.Manifest = expanded
	return nil
}

func (c *Config) normalizePlugin() {
	c.Plugin.Name = strings.TrimSpace(c.Plugin.Name)
	if c.Plugin.Name == "" {
		c.Plugin.Name = defaultPluginName
	}
	c.Plugin.Author = strings.TrimSpace(c.Plugin.Author)
	c.Plugin.MastersOrder = strings.ToLower(strings.TrimSpace(c.Plugin.MastersOrder))
	if c.Plugin.MastersOrder == "" {
		c.Plugin.MastersOrder = defaultMastersOrder
	}
	if c.Plugin.FirstFormID == 0 {
		c.Plugin.FirstFormID = defaultFormIDFirst
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
