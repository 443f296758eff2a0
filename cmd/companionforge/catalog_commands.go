package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"companionforge/internal/catalog"
	"companionforge/internal/record"
	"companionforge/internal/textutil"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the external record catalog",
	}

	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))

	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <listing>",
		Short: "Replace the catalog contents with a TOML or YAML listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			listing, err := catalog.ReadListing(args[0])
			if err != nil {
				return err
			}
			store, err := catalog.Create(cmd.Context(), cfg.Paths.CatalogDB)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(cmd.Context(), listing)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %d plugins into %s\n", n, len(listing.LoadOrder), store.Path())
			return nil
		},
	}
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var kindFilter string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarize the catalog, or list one record kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cmd.Context(), cfg.Paths.CatalogDB)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			order, err := store.LoadOrder(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Catalog: %s\n", store.Path())
			fmt.Fprintf(out, "Load order: %s\n", strings.Join(order, ", "))

			if strings.TrimSpace(kindFilter) != "" {
				kind, err := record.ParseKind(kindFilter)
				if err != nil {
					return err
				}
				entries, err := store.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.ID.Hex(), e.EditorID, e.DefinedIn})
				}
				fmt.Fprintln(out, renderTable([]string{"Form ID", "Editor ID", "Defined In"}, rows, nil))
				return nil
			}

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			slices.Sort(kinds)
			rows := make([][]string, 0, len(kinds))
			total := 0
			for _, k := range kinds {
				rows = append(rows, []string{textutil.Label(k), strconv.Itoa(counts[k])})
				total += counts[k]
			}
			rows = append(rows, []string{"Total", strconv.Itoa(total)})
			fmt.Fprintln(out, renderTable([]string{"Kind", "Records"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "List the winning records of this kind (name or signature)")
	return cmd
}
