package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"companionforge/internal/assembly"
	"companionforge/internal/catalog"
	"companionforge/internal/config"
	"companionforge/internal/content"
	"companionforge/internal/faults"
	"companionforge/internal/logging"
	"companionforge/internal/plugin"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "--log-level", "", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "config", "logger", "", err)
	}
	return logger, nil
}

// session holds what build, validate and inspect share: the loaded
// configuration, an open read-only catalog and the manifest.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	manifest *content.Manifest
}

func (c *commandContext) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	manifest, err := content.Load(cfg.Content.Manifest)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "config", "manifest", "", err)
	}
	store, err := catalog.Open(cmd.Context(), cfg.Paths.CatalogDB)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, store: store, manifest: manifest}, nil
}

func (s *session) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

func (s *session) options() assembly.Options {
	return assembly.Options{
		Plugin:      s.cfg.Plugin.Name,
		FirstFormID: uint32(s.cfg.Plugin.FirstFormID),
		Manifest:    s.manifest,
		Catalog:     s.store,
		Logger:      s.logger,
	}
}

func (s *session) mastersPolicy(cmd *cobra.Command) (plugin.MastersPolicy, error) {
	if s.cfg.Plugin.MastersOrder == config.MastersAlphabetical {
		return plugin.Alphabetical(), nil
	}
	order, err := s.store.LoadOrder(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("catalog load order: %w", err)
	}
	return plugin.LoadOrder(order), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
