package automaton

import (
	"fmt"
	"strings"
)

// Kinds of automaton, as used in fixture paths and events.
const (
	KindPDA = "dpda"
	KindNFA = "enfa"
)

// Outcome is how a run ended.
type Outcome int

const (
	// Accepted means all input was consumed and the automaton ended in an accept state.
	Accepted Outcome = iota
	// Rejected means all input was consumed and the automaton ended outside the accept set.
	Rejected
	// Stuck means a PDA found no transition before the input was exhausted.
	Stuck
	// Dead means an NFA frontier became empty.
	Dead
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Stuck:
		return "stuck"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Accepted returns true only for the Accepted outcome.
func (o Outcome) Accepted() bool {
	return o == Accepted
}

// Halted returns true if the run stopped before consuming all input.
func (o Outcome) Halted() bool {
	return o == Stuck || o == Dead
}

const (
	traceSeparator = "|"
	traceFail      = "fail"
)

// Trace is the ordered list of configurations a run visited, rendered as
// entries like "q1#AZ" (PDA) or "q0,q2" (NFA).
type Trace struct {
	Entries []string
	Outcome Outcome
}

// String renders the trace in the fixture format:
// entries joined by "|", an optional "fail" segment, then 1 or 0.
func (t Trace) String() string {
	var sb strings.Builder
	for _, e := range t.Entries {
		sb.WriteString(e)
		sb.WriteString(traceSeparator)
	}
	if t.Outcome.Halted() {
		sb.WriteString(traceFail)
		sb.WriteString(traceSeparator)
	}
	if t.Outcome.Accepted() {
		sb.WriteByte('1')
	} else {
		sb.WriteByte('0')
	}
	return sb.String()
}

// Result is the value every run produces. A run never returns an error for a
// well formed definition; Stuck and Dead are reported here as well.
type Result struct {
	Outcome Outcome
	Trace   Trace
	// Consumed is the number of input symbols read before the run ended.
	Consumed int
}

func (r *Result) String() string {
	return r.Trace.String()
}

// Simulator is implemented by every engine in this package.
type Simulator interface {
	Run(input []string, opts ...RunOption) *Result
}

var (
	_ Simulator = &PushdownAutomaton{}
	_ Simulator = &EpsilonNFA{}
)

// Parse builds the engine for kind (KindPDA or KindNFA) from its field list.
func Parse(kind string, fields []string) (Simulator, error) {
	switch kind {
	case KindPDA:
		p, err := ParsePushdownAutomaton(fields)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindNFA:
		n, err := ParseEpsilonNFA(fields)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown automaton kind %q", kind)
	}
}
