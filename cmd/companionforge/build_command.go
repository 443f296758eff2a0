package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"companionforge/internal/assembly"
	"companionforge/internal/config"
	"companionforge/internal/faults"
	"companionforge/internal/fileutil"
	"companionforge/internal/logging"
	"companionforge/internal/papyrus"
	"companionforge/internal/plugin"
	"companionforge/internal/preflight"
	"companionforge/internal/record"
	"companionforge/internal/textutil"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var skipScripts bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build, validate and write the companion package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				return preflightError(failed)
			}

			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			buildID := uuid.NewString()
			runCtx := logging.WithBuildID(cmd.Context(), buildID)
			logger := logging.WithContext(runCtx, s.logger)
			logger.Info("build started",
				logging.String("plugin", cfg.Plugin.Name),
				logging.String("catalog", cfg.Paths.CatalogDB),
			)

			res, err := assembly.Build(runCtx, s.options())
			if err != nil {
				return err
			}
			policy, err := s.mastersPolicy(cmd)
			if err != nil {
				return err
			}
			written, err := plugin.WriteFile(runCtx, cfg.PluginPath(), res.Package, policy, plugin.WithAuthor(cfg.Plugin.Author))
			if err != nil {
				return err
			}
			logger.Info("package written",
				logging.String("path", written.Path),
				logging.Int64("bytes", written.Size),
				logging.String("sha256", written.SHA256),
			)

			scriptPath := ""
			if cfg.Plugin.WriteScriptSource && !skipScripts {
				scriptPath, err = writeScriptSource(cfg, res.Quest)
				if err != nil {
					return err
				}
				logger.Info("fragment script written", logging.String("path", scriptPath))
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBuildSummary(buildID, res, written, policy.Order(res.Package.Masters()), scriptPath))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipScripts, "no-scripts", false, "Skip writing the fragment script source")
	return cmd
}

func writeScriptSource(cfg *config.Config, quest *record.Quest) (string, error) {
	source, err := papyrus.Render(quest)
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfg.ScriptSourceDir(), textutil.SanitizeFileName(papyrus.FileName(quest)))
	written, err := fileutil.WriteFileLocked(path, []byte(source), 0o644)
	if err != nil {
		return "", faults.Wrap(faults.ErrEmit, "emit", "script source", path, err)
	}
	return written.Path, nil
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(r.Name), r.Detail))
	}
	return faults.Wrap(faults.ErrConfiguration, "preflight", "", strings.Join(parts, "; "), nil)
}

func renderBuildSummary(buildID string, res *assembly.Result, written fileutil.Written, masters []string, scriptPath string) string {
	omitted := "none"
	if len(res.Omitted) > 0 {
		omitted = strings.Join(res.Omitted, ", ")
	}
	fields := []field{
		{"Build ID", buildID},
		{"Package", written.Path},
		{"Size", strconv.FormatInt(written.Size, 10) + " bytes"},
		{"SHA-256", written.SHA256},
		{"Masters", strings.Join(masters, ", ")},
		{"Records", strconv.Itoa(len(res.Package.Owned()))},
		{"Identifiers", strconv.Itoa(res.Issued)},
		{"Quest", fmt.Sprintf("%s (%s)", res.Quest.EditorID(), res.Quest.ID())},
		{"Stages", strconv.Itoa(len(res.Quest.Stages))},
		{"Checks passed", strconv.Itoa(len(res.Report.Results))},
		{"Omitted", omitted},
	}
	if scriptPath != "" {
		fields = append(fields, field{"Script source", scriptPath})
	}
	return renderFields("Build", fields)
}
