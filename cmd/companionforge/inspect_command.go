package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"companionforge/internal/assembly"
	"companionforge/internal/record"
	"companionforge/internal/textutil"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var kindFilter string
	var externals bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the records the build would produce",
		Long: "Assemble the package without validating or writing it and list its records.\n" +
			"Use --externals to list the catalog records it depends on instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind record.Kind
			if strings.TrimSpace(kindFilter) != "" {
				parsed, err := record.ParseKind(kindFilter)
				if err != nil {
					return err
				}
				kind = parsed
			}

			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := assembly.Assemble(cmd.Context(), s.options())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := s.manifest.Stats()
			fmt.Fprintf(out, "Quest %s: %d stages, %d aliases, %d scenes, %d topics, %d greeting responses\n",
				res.Quest.EditorID(), stats.Stages, stats.Aliases, stats.Scenes, stats.Topics, stats.Greetings)
			if len(res.Omitted) > 0 {
				fmt.Fprintf(out, "Omitted: %s\n", strings.Join(res.Omitted, ", "))
			}

			if externals {
				fmt.Fprintln(out, renderExternals(res, kind))
				return nil
			}
			fmt.Fprintln(out, renderRecords(res, kind))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "Only list records of this kind (name or signature)")
	cmd.Flags().BoolVar(&externals, "externals", false, "List catalog records the package depends on")
	return cmd
}

func renderRecords(res *assembly.Result, kind record.Kind) string {
	var rows [][]string
	for _, rec := range res.Package.Owned() {
		if kind != record.KindUnknown && rec.Kind() != kind {
			continue
		}
		children := 0
		if parent, ok := rec.(record.Parent); ok {
			children = len(parent.Children())
		}
		rows = append(rows, []string{
			rec.ID().Hex(),
			rec.Kind().Signature(),
			textutil.Label(rec.Kind().String()),
			rec.EditorID(),
			strconv.Itoa(len(rec.Refs())),
			strconv.Itoa(children),
		})
	}
	return renderTable(
		[]string{"Form ID", "Type", "Kind", "Editor ID", "Refs", "Children"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderExternals(res *assembly.Result, kind record.Kind) string {
	var rows [][]string
	for _, ext := range res.Package.Externals() {
		if kind != record.KindUnknown && ext.Target != kind {
			continue
		}
		rows = append(rows, []string{
			ext.ID().Hex(),
			textutil.Label(ext.Target.String()),
			ext.EditorID(),
			ext.ID().Plugin,
		})
	}
	return renderTable([]string{"Form ID", "Kind", "Editor ID", "Defined In"}, rows, nil)
}
