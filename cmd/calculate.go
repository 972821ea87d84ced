package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/C0n0r92/calc2/internal/cache"
	"github.com/C0n0r92/calc2/internal/cli"
	"github.com/C0n0r92/calc2/internal/client"
	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/service"
	"github.com/C0n0r92/calc2/internal/wire"
)

// outputFlags select where results come from and how they are printed.
type outputFlags struct {
	json    bool
	remote  string
	timeout time.Duration
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the raw JSON response")
	cmd.Flags().StringVar(&o.remote, "remote", "", "Calculator API base URL; falls back to local computation on failure")
	cmd.Flags().DurationVar(&o.timeout, "timeout", client.DefaultTimeout, "Remote call timeout")
}

// calculator returns the local service, or a remote client backed by it.
// The returned close function releases the cache.
func (o *outputFlags) calculator(cfg *config.Config, logger *slog.Logger) (service.Calculator, func() error, error) {
	store, err := cache.New(cfg)
	if err != nil {
		logger.Warn("result cache unavailable, continuing without it", "backend", cfg.CacheBackend, "error", err)
		store = cache.Nop{}
	}

	local := service.New(cfg, store, logger)
	if o.remote == "" {
		return local, store.Close, nil
	}
	return &client.Fallback{
		Remote: client.New(o.remote, o.timeout),
		Local:  local,
		Logger: logger,
	}, store.Close, nil
}

func newCalculateCmd(root *rootOptions) *cobra.Command {
	var (
		loan     loanFlags
		out      outputFlags
		schedule bool
		yearly   bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the amortization schedule of a loan",
		Example: `  mortgage calculate --amount 300000 --rate 6.5 --term 30 --home-value 360000
  mortgage calculate --input loan.toml --schedule --yearly`,
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

			calc, closeCache, err := out.calculator(cfg, logger)
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := calc.Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.json {
				return printJSON(w, wire.CalculationEnvelope{Result: wire.FromResult(result)})
			}

			fmt.Fprintln(w, cli.RenderSummary(result, in.Currency))
			if schedule || yearly {
				fmt.Fprintln(w, cli.RenderSchedule(result.Schedule, in.Currency, yearly))
			}
			return nil
		},
	}

	loan.register(cmd.Flags())
	out.register(cmd)
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Print the full amortization schedule")
	cmd.Flags().BoolVar(&yearly, "yearly", false, "Print the schedule rolled up per year")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	body, err := wire.Encode(v, wire.SnakeCase)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}
