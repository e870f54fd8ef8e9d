package commands

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	automaton "github.com/geange/automata-sim"
	"github.com/geange/automata-sim/internal/harness"
)

func newTestCommand() *cobra.Command {
	var (
		dpda    bool
		enfa    bool
		all     bool
		testNum int
	)

	cmd := &cobra.Command{
		Use:   "test (--dpda | --enfa) (--all | --test-num N)",
		Short: "Run fixture test cases and compare traces",
		Long: `Test runs numbered fixtures from the configured fixtures directory:
  <fixtures>/dpda/test<N>/test.in, test.out
  <fixtures>/enfa/test<N>/test.in.txt, test.out.txt
Every sequence of a case is simulated and its trace compared with the
expected one.`,
		Example: `  automatonsim test --dpda --all
  automatonsim test --enfa --test-num 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := automaton.KindPDA
			if enfa {
				kind = automaton.KindNFA
			}

			available, err := harness.Discover(cfg.Fixtures, kind)
			if err != nil {
				return err
			}
			nums := available
			if !all {
				nums = []int{testNum}
				if !slices.Contains(available, testNum) {
					return fmt.Errorf("test case number %d is not valid, %d %s cases available", testNum, len(available), kind)
				}
			}

			runner := harness.NewRunner(cfg.Fixtures,
				harness.WithWorkers(cfg.Workers),
				harness.WithLogger(log.Logger),
				harness.WithTraceEvents(traceEvents()),
			)
			summary, err := runner.RunSuite(cmd.Context(), kind, nums)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			if len(summary.Failed) > 0 {
				return errors.New("some test cases failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dpda, "dpda", false, "run pushdown automaton fixtures")
	cmd.Flags().BoolVar(&enfa, "enfa", false, "run epsilon-NFA fixtures")
	cmd.Flags().BoolVar(&all, "all", false, "run every available case")
	cmd.Flags().IntVarP(&testNum, "test-num", "n", 0, "number of the case to run")
	cmd.MarkFlagsMutuallyExclusive("dpda", "enfa")
	cmd.MarkFlagsOneRequired("dpda", "enfa")
	cmd.MarkFlagsMutuallyExclusive("all", "test-num")
	cmd.MarkFlagsOneRequired("all", "test-num")

	return cmd
}
