package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	automaton "github.com/geange/automata-sim"
	"github.com/geange/automata-sim/internal/harness"
)

func newRunCommand() *cobra.Command {
	var (
		kind       string
		definition string
	)

	cmd := &cobra.Command{
		Use:   "run --kind dpda|enfa --definition FILE SEQUENCE...",
		Short: "Run an automaton over input sequences",
		Long: `Run parses a definition file and simulates it over every SEQUENCE.
A sequence is a comma separated list of symbols; "" is the empty input.
One trace is printed per sequence.`,
		Example: `  # 0^n1^n pushdown automaton
  automatonsim run --kind dpda --definition anbn.txt 0,0,1,1 0,1,1 ""`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(definition)
			if err != nil {
				return fmt.Errorf("read definition: %w", err)
			}
			fields := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

			sim, err := automaton.Parse(kind, fields)
			if err != nil {
				return err
			}

			var opts []automaton.RunOption
			if traceEvents() {
				opts = append(opts, automaton.WithReporter(automaton.NewLogReporter(log.Logger)))
			}

			out := cmd.OutOrStdout()
			for _, arg := range args {
				for _, seq := range harness.ParseSequences(arg) {
					res := sim.Run(seq, opts...)
					log.Debug().
						Str("input", strings.Join(seq, ",")).
						Stringer("outcome", res.Outcome).
						Int("consumed", res.Consumed).
						Msg("simulation finished")
					fmt.Fprintln(out, res.Trace.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", automaton.KindPDA, "automaton kind (dpda or enfa)")
	cmd.Flags().StringVarP(&definition, "definition", "d", "", "definition file path")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}
