package automaton

import (
	"strings"

	"github.com/rs/zerolog"
)

// EventKind identifies what happened during a run.
type EventKind int

const (
	// EventStart is sent once with the configuration a run begins in.
	EventStart EventKind = iota
	// EventTransition is sent for every applied transition, epsilon included.
	EventTransition
	// EventEpsilonLoop is sent when a PDA epsilon closure stops on a loop.
	EventEpsilonLoop
	// EventEnd is sent once with the run's outcome.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventTransition:
		return "transition"
	case EventEpsilonLoop:
		return "epsilon-loop"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is a single step notification sent to a Reporter.
type Event struct {
	Kind EventKind
	// Automaton is "dpda" or "enfa".
	Automaton string
	// From and To are the states before and after a transition. For an NFA
	// they are frontiers.
	From   []string
	To     []string
	Symbol string
	// Entry is the trace entry recorded for this event, if any.
	Entry   string
	Outcome Outcome
}

// Epsilon returns true for transitions that consumed no input.
func (e Event) Epsilon() bool {
	return e.Kind == EventTransition && e.Symbol == Epsilon
}

// Reporter receives run events. Implementations must not retain the slices in
// an Event beyond the call.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) {
	f(e)
}

// NopReporter drops every event.
type NopReporter struct{}

func (NopReporter) Report(Event) {}

// LogReporter writes events to a zerolog logger: transitions at debug level,
// the start and end of a run at info level.
type LogReporter struct {
	Logger zerolog.Logger
}

// NewLogReporter returns a LogReporter writing to logger.
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{Logger: logger}
}

// Report logs e. The logger's writer must tolerate concurrent writes when
// the same LogReporter serves several runs at once.
func (r *LogReporter) Report(e Event) {
	switch e.Kind {
	case EventStart:
		r.Logger.Info().
			Str("automaton", e.Automaton).
			Str("state", strings.Join(e.To, ",")).
			Str("entry", e.Entry).
			Msg("simulation started")
	case EventTransition:
		msg := "transition"
		if e.Epsilon() {
			msg = "epsilon transition"
		}
		r.Logger.Debug().
			Str("automaton", e.Automaton).
			Str("from", strings.Join(e.From, ",")).
			Str("symbol", e.Symbol).
			Str("to", strings.Join(e.To, ",")).
			Str("entry", e.Entry).
			Msg(msg)
	case EventEpsilonLoop:
		r.Logger.Warn().
			Str("automaton", e.Automaton).
			Str("state", strings.Join(e.From, ",")).
			Msg("epsilon closure stopped on a non-progressing loop")
	case EventEnd:
		r.Logger.Info().
			Str("automaton", e.Automaton).
			Str("state", strings.Join(e.To, ",")).
			Stringer("outcome", e.Outcome).
			Msg("simulation ended")
	}
}

type runOptions struct {
	reporter Reporter
}

// RunOption configures a single run.
type RunOption func(*runOptions)

// WithReporter sends the run's events to r.
func WithReporter(r Reporter) RunOption {
	return func(o *runOptions) {
		if r != nil {
			o.reporter = r
		}
	}
}

func newRunOptions(opts ...RunOption) *runOptions {
	o := &runOptions{reporter: NopReporter{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
