package automaton

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const nfaMinFields = 6

type nfaKey struct {
	state  int
	symbol string
}

// EpsilonNFA is a nondeterministic finite automaton with epsilon
// transitions. It is immutable after parsing; each Run owns its frontier.
type EpsilonNFA struct {
	*Definition

	transitions map[nfaKey]*bitset.BitSet
}

// ParseEpsilonNFA builds an epsilon-NFA from its field list:
//
//	header, states, input symbols, accept states, start state, transition...
//
// Each transition reads "state,symbol->next1,next2,...". symbol may be
// Epsilon, and a lone EmptyTarget on the right means no next state.
func ParseEpsilonNFA(fields []string) (*EpsilonNFA, error) {
	if len(fields) < nfaMinFields {
		return nil, malformed("epsilon-NFA needs at least %d fields, got %d", nfaMinFields, len(fields))
	}

	def, err := newDefinition(fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return nil, err
	}

	n := &EpsilonNFA{
		Definition:  def,
		transitions: make(map[nfaKey]*bitset.BitSet),
	}
	for _, line := range fields[nfaMinFields-1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := n.addTransition(line); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *EpsilonNFA) addTransition(line string) error {
	left, right, err := splitTransition(line)
	if err != nil {
		return err
	}
	if len(left) != 2 {
		return malformed("transition %q must read state,symbol->next...", line)
	}

	from, err := n.state(left[0])
	if err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}
	if err := n.inputSymbol(left[1]); err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}

	key := nfaKey{state: from, symbol: left[1]}
	if _, ok := n.transitions[key]; ok {
		return malformed("transition %q: duplicate key %s,%s", line, left[0], left[1])
	}

	targets := bitset.New(uint(len(n.states)))
	if !(len(right) == 1 && right[0] == EmptyTarget) {
		for _, label := range right {
			to, err := n.state(label)
			if err != nil {
				return fmt.Errorf("transition %q: %w", line, err)
			}
			targets.Set(uint(to))
		}
	}
	n.transitions[key] = targets
	return nil
}

// Closure returns the epsilon closure of states, sorted. Undeclared labels
// are ignored.
func (n *EpsilonNFA) Closure(states ...string) []string {
	return n.closure(n.frontierOf(states), nil).labels(n.Definition)
}

// Step consumes symbol from the given frontier and returns the epsilon
// closure of the result, sorted. An empty frontier always yields an empty one.
func (n *EpsilonNFA) Step(states []string, symbol string) []string {
	f := n.step(n.frontierOf(states), symbol, nil)
	return n.closure(f, nil).labels(n.Definition)
}

func (n *EpsilonNFA) frontierOf(states []string) frontier {
	f := newFrontier(n.Definition)
	for _, s := range states {
		if idx, ok := n.stateIndex[s]; ok {
			f.Set(uint(idx))
		}
	}
	return f
}

// closure grows f by epsilon targets until a round adds nothing new. Each
// round only expands the states added by the previous one, so it finishes in
// at most len(states) rounds even with epsilon cycles.
func (n *EpsilonNFA) closure(f frontier, reporter Reporter) frontier {
	result := f.clone()
	added := f.clone()
	for added.Any() {
		reached := newFrontier(n.Definition)
		added.each(func(s int) {
			targets, ok := n.transitions[nfaKey{state: s, symbol: Epsilon}]
			if !ok {
				return
			}
			reached.InPlaceUnion(targets)
			n.report(reporter, s, Epsilon, targets)
		})
		added = frontier{reached.Difference(result.BitSet)}
		result.InPlaceUnion(added.BitSet)
	}
	return result
}

// step returns the union of the symbol targets of every state in f.
func (n *EpsilonNFA) step(f frontier, symbol string, reporter Reporter) frontier {
	next := newFrontier(n.Definition)
	if symbol == Epsilon {
		return next
	}
	f.each(func(s int) {
		targets, ok := n.transitions[nfaKey{state: s, symbol: symbol}]
		if !ok {
			return
		}
		next.InPlaceUnion(targets)
		n.report(reporter, s, symbol, targets)
	})
	return next
}

func (n *EpsilonNFA) report(reporter Reporter, from int, symbol string, targets *bitset.BitSet) {
	if reporter == nil {
		return
	}
	reporter.Report(Event{
		Kind:      EventTransition,
		Automaton: KindNFA,
		From:      []string{n.states[from]},
		To:        frontier{targets}.labels(n.Definition),
		Symbol:    symbol,
	})
}

// Run simulates the automaton over input. The run is Dead as soon as the
// frontier becomes empty; otherwise it is Accepted when the final frontier
// contains an accept state and Rejected when it does not.
func (n *EpsilonNFA) Run(input []string, opts ...RunOption) *Result {
	o := newRunOptions(opts...)
	reporter := o.reporter

	current := n.closure(newFrontier(n.Definition, n.start), reporter)
	trace := []string{current.entry(n.Definition)}
	reporter.Report(Event{
		Kind:      EventStart,
		Automaton: KindNFA,
		To:        current.labels(n.Definition),
		Entry:     trace[0],
	})

	end := func(outcome Outcome, consumed int) *Result {
		reporter.Report(Event{
			Kind:      EventEnd,
			Automaton: KindNFA,
			To:        current.labels(n.Definition),
			Outcome:   outcome,
		})
		return &Result{
			Outcome:  outcome,
			Trace:    Trace{Entries: trace, Outcome: outcome},
			Consumed: consumed,
		}
	}

	for i, sym := range input {
		current = n.closure(n.step(current, sym, reporter), reporter)
		trace = append(trace, current.entry(n.Definition))
		if current.None() {
			return end(Dead, i+1)
		}
	}

	if current.accepts(n.Definition) {
		return end(Accepted, len(input))
	}
	return end(Rejected, len(input))
}
