package harness

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	automaton "github.com/geange/automata-sim"
)

// Mismatch describes one sequence whose trace differs from the expected one.
type Mismatch struct {
	Sequence int
	Input    []string
	Got      string
	Want     string
	// Diff is a unified diff with one trace entry per line.
	Diff string
}

// CaseResult holds the traces produced for every sequence of a case.
type CaseResult struct {
	Kind       string
	Num        int
	Traces     []string
	Outcomes   []automaton.Outcome
	Mismatches []Mismatch
}

func (r *CaseResult) Passed() bool {
	return len(r.Mismatches) == 0
}

// Summary tabulates a suite run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    []int
}

func (s *Summary) String() string {
	failed := make([]string, len(s.Failed))
	for i, n := range s.Failed {
		failed[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("tests succeeded %d/%d, failed cases: [%s]",
		s.Succeeded, s.Attempted, strings.Join(failed, ","))
}

type runnerOptions struct {
	workers     int
	logger      zerolog.Logger
	traceEvents bool
}

// Option configures a Runner.
type Option func(*runnerOptions)

// WithWorkers bounds how many sequences of one case run at the same time.
func WithWorkers(n int) Option {
	return func(o *runnerOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger for suite results and trace events. Events from
// the concurrent runs of a case are serialized, so any writer will do.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *runnerOptions) {
		o.logger = logger
	}
}

// WithTraceEvents logs every simulation event through the runner's logger.
func WithTraceEvents(enabled bool) Option {
	return func(o *runnerOptions) {
		o.traceEvents = enabled
	}
}

// Runner loads fixtures from a root directory and checks engine traces
// against them.
type Runner struct {
	root string
	opts *runnerOptions
}

func NewRunner(root string, options ...Option) *Runner {
	opts := &runnerOptions{
		workers: 4,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(opts)
	}
	return &Runner{root: root, opts: opts}
}

// Run loads and runs case num of kind.
func (r *Runner) Run(ctx context.Context, kind string, num int) (*CaseResult, error) {
	c, err := LoadCase(r.root, kind, num)
	if err != nil {
		return nil, err
	}
	return r.RunCase(ctx, c)
}

// RunCase runs every sequence of c against one shared definition and compares
// each produced trace with the expected one. Sequences run concurrently; their
// trace events reach the logger one at a time.
func (r *Runner) RunCase(ctx context.Context, c *Case) (*CaseResult, error) {
	sim, err := automaton.Parse(c.Kind, c.Definition)
	if err != nil {
		return nil, fmt.Errorf("case %d: %w", c.Num, err)
	}

	result := &CaseResult{
		Kind:     c.Kind,
		Num:      c.Num,
		Traces:   make([]string, len(c.Sequences)),
		Outcomes: make([]automaton.Outcome, len(c.Sequences)),
	}

	events := &lockedReporter{next: automaton.NewLogReporter(r.opts.logger)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers)
	for i, seq := range c.Sequences {
		i, seq := i, seq
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var opts []automaton.RunOption
			if r.opts.traceEvents {
				opts = append(opts, automaton.WithReporter(events.with(c.Num, i)))
			}
			res := sim.Run(seq, opts...)
			result.Traces[i] = res.Trace.String()
			result.Outcomes[i] = res.Outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, got := range result.Traces {
		var want string
		if i < len(c.Expected) {
			want = strings.TrimSpace(c.Expected[i])
		}
		if got == want {
			continue
		}
		result.Mismatches = append(result.Mismatches, Mismatch{
			Sequence: i,
			Input:    c.Sequences[i],
			Got:      got,
			Want:     want,
			Diff:     traceDiff(want, got),
		})
	}
	return result, nil
}

// RunSuite runs the given cases in order. A case that cannot be loaded or
// parsed counts as failed; only cancellation stops the suite.
func (r *Runner) RunSuite(ctx context.Context, kind string, nums []int) (*Summary, error) {
	summary := &Summary{}
	log := r.opts.logger

	for _, num := range nums {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++

		res, err := r.Run(ctx, kind, num)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error().Err(err).Str("kind", kind).Int("case", num).Msg("test case could not run")
			summary.Failed = append(summary.Failed, num)
			continue
		}

		if res.Passed() {
			summary.Succeeded++
			log.Info().Str("kind", kind).Int("case", num).Int("sequences", len(res.Traces)).Msg("logs match")
			continue
		}
		summary.Failed = append(summary.Failed, num)
		for _, m := range res.Mismatches {
			log.Warn().
				Str("kind", kind).
				Int("case", num).
				Int("sequence", m.Sequence).
				Str("simulated", m.Got).
				Str("correct", m.Want).
				Msg("logs do not match")
			log.Debug().Msg("trace diff:\n" + m.Diff)
		}
	}
	return summary, nil
}

// lockedReporter funnels events from concurrent runs into one LogReporter.
type lockedReporter struct {
	mu   sync.Mutex
	next *automaton.LogReporter
}

// with returns a reporter tagging events with the case and sequence.
func (l *lockedReporter) with(num, sequence int) automaton.Reporter {
	logger := l.next.Logger.With().Int("case", num).Int("sequence", sequence).Logger()
	tagged := automaton.NewLogReporter(logger)
	return automaton.ReporterFunc(func(e automaton.Event) {
		l.mu.Lock()
		defer l.mu.Unlock()
		tagged.Report(e)
	})
}

func traceDiff(want, got string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        traceLines(want),
		B:        traceLines(got),
		FromFile: "expected",
		ToFile:   "simulated",
		Context:  2,
	})
	if err != nil {
		return fmt.Sprintf("- %s\n+ %s\n", want, got)
	}
	return diff
}

func traceLines(trace string) []string {
	entries := strings.Split(trace, "|")
	for i := range entries {
		entries[i] += "\n"
	}
	return entries
}
