package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"companionforge/internal/assembly"
	"companionforge/internal/logging"
	"companionforge/internal/textutil"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Assemble the package and run the guardrail checks without writing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			runCtx := logging.WithBuildID(cmd.Context(), uuid.NewString())
			opts := s.options()
			res, err := assembly.Assemble(runCtx, opts)
			if err != nil {
				return err
			}
			report, err := assembly.Validate(runCtx, res, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(report.Results))
			for i, r := range report.Results {
				rows = append(rows, []string{strconv.Itoa(i + 1), r.Check, r.Status.String(), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Check", "Status", "Detail"}, rows, []columnAlignment{alignRight}))

			passed := report.Passed()
			message := textutil.Ternary(passed, fmt.Sprintf("%d checks passed", len(report.Results)), "stopped at first violation")
			fmt.Fprintln(out, renderStatusLine("Guardrails", textutil.Ternary(passed, statusOK, statusError), message, shouldColorize(out)))
			if !passed {
				return report.Violation
			}
			return nil
		},
	}
}
