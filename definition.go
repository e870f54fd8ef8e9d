package automaton

import (
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const (
	// Epsilon marks a transition that consumes no input symbol.
	Epsilon = "$"

	// StackBottom is the symbol that always sits at the bottom of a PDA stack.
	StackBottom = "$"

	// EmptyTarget is the NFA transition target meaning "no next state".
	EmptyTarget = "#"

	transitionSeparator = "->"
	listSeparator       = ","
)

// Definition holds what both kinds of automaton share: declared states, the
// input alphabet, accept states and the start state. States are addressed by
// their index in declaration order. A Definition is never modified after
// parsing, so one value may back any number of concurrent runs.
type Definition struct {
	states     []string
	stateIndex map[string]int
	symbols    []string
	symbolSet  map[string]struct{}
	accept     *bitset.BitSet
	start      int
}

func newDefinition(states, symbols, accept, start string) (*Definition, error) {
	d := &Definition{
		stateIndex: make(map[string]int),
		symbolSet:  make(map[string]struct{}),
	}

	for _, s := range splitList(states) {
		if _, ok := d.stateIndex[s]; ok {
			return nil, malformed("state %q declared twice", s)
		}
		d.stateIndex[s] = len(d.states)
		d.states = append(d.states, s)
	}
	if len(d.states) == 0 {
		return nil, malformed("no states declared")
	}

	for _, sym := range splitList(symbols) {
		if sym == Epsilon {
			return nil, malformed("epsilon marker %q declared as an input symbol", Epsilon)
		}
		if _, ok := d.symbolSet[sym]; ok {
			continue
		}
		d.symbolSet[sym] = struct{}{}
		d.symbols = append(d.symbols, sym)
	}

	d.accept = bitset.New(uint(len(d.states)))
	for _, s := range splitList(accept) {
		idx, ok := d.stateIndex[s]
		if !ok {
			return nil, malformed("accept state %q is not declared", s)
		}
		d.accept.Set(uint(idx))
	}

	start = strings.TrimSpace(start)
	idx, ok := d.stateIndex[start]
	if !ok {
		return nil, malformed("start state %q is not declared", start)
	}
	d.start = idx

	return d, nil
}

// States returns the declared states in declaration order.
func (d *Definition) States() []string {
	return slices.Clone(d.states)
}

// Alphabet returns the declared input symbols in declaration order.
func (d *Definition) Alphabet() []string {
	return slices.Clone(d.symbols)
}

// StartState returns the label of the start state.
func (d *Definition) StartState() string {
	return d.states[d.start]
}

// AcceptStates returns the accept states in declaration order.
func (d *Definition) AcceptStates() []string {
	labels := make([]string, 0, d.accept.Count())
	for i, ok := d.accept.NextSet(0); ok; i, ok = d.accept.NextSet(i + 1) {
		labels = append(labels, d.states[i])
	}
	return labels
}

// IsAccept returns true if state is a declared accept state.
func (d *Definition) IsAccept(state string) bool {
	idx, ok := d.stateIndex[state]
	return ok && d.accept.Test(uint(idx))
}

func (d *Definition) isAccept(state int) bool {
	return d.accept.Test(uint(state))
}

func (d *Definition) state(label string) (int, error) {
	idx, ok := d.stateIndex[label]
	if !ok {
		return -1, malformed("state %q is not declared", label)
	}
	return idx, nil
}

// inputSymbol accepts declared input symbols and the epsilon marker.
func (d *Definition) inputSymbol(sym string) error {
	if sym == Epsilon {
		return nil
	}
	if _, ok := d.symbolSet[sym]; !ok {
		return malformed("input symbol %q is not declared", sym)
	}
	return nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitTransition splits "left->right" into its comma separated halves.
func splitTransition(line string) (left, right []string, err error) {
	l, r, ok := strings.Cut(strings.TrimSpace(line), transitionSeparator)
	if !ok {
		return nil, nil, malformed("transition %q has no %q", line, transitionSeparator)
	}
	left = strings.Split(strings.TrimSpace(l), listSeparator)
	right = strings.Split(strings.TrimSpace(r), listSeparator)
	for i := range left {
		left[i] = strings.TrimSpace(left[i])
	}
	for i := range right {
		right[i] = strings.TrimSpace(right[i])
	}
	return left, right, nil
}
