package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C0n0r92/calc2/internal/cli"
	"github.com/C0n0r92/calc2/internal/wire"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var (
		loan    loanFlags
		out     outputFlags
		amounts []float64
	)

	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Compare extra payment amounts against the plain loan",
		Example: `  mortgage compare --amount 300000 --rate 6.5 --amounts 100,250,500`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req, err := loan.request(cmd)
			if err != nil {
				return err
			}
			in, err := req.LoanInput()
			if err != nil {
				return err
			}

			selected, err := req.Amounts()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("amounts") {
				selected = amounts
			}

			calc, closeCache, err := out.calculator(cfg, logger)
			if err != nil {
				return err
			}
			defer closeCache()

			results, err := calc.CompareScenarios(cmd.Context(), in, selected)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.json {
				return printJSON(w, wire.ComparisonEnvelope{Scenarios: wire.FromScenarios(results)})
			}
			fmt.Fprintln(w, cli.RenderScenarios(results, in.Currency))
			return nil
		},
	}

	loan.register(cmd.Flags())
	out.register(cmd)
	cmd.Flags().Float64SliceVar(&amounts, "amounts", nil, "Extra payment amounts to compare (default 50,100,200,500)")
	return cmd
}
