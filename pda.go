package automaton

import (
	"fmt"
	"slices"
	"strings"
)

const pdaMinFields = 8

type pdaKey struct {
	state  int
	symbol string
	top    string
}

type pdaAction struct {
	next int
	// push lists the symbols top first; empty means pop only.
	push []string
}

// PushdownAutomaton is a deterministic pushdown automaton. It is immutable
// after parsing; each call to Run owns its own stack and state cursor.
type PushdownAutomaton struct {
	*Definition

	stackSymbols []string
	stackSet     map[string]struct{}
	maxTokenLen  int
	initialStack string

	transitions map[pdaKey]pdaAction
}

// ParsePushdownAutomaton builds a PDA from its field list:
//
//	header, states, input symbols, stack symbols, accept states, start state,
//	initial stack symbol, transition...
//
// Each transition reads "state,symbol,top->next,push". symbol may be Epsilon
// and top may be StackBottom. push lists stack symbols top first; StackBottom
// inside it stops pushing, so "$" alone means pop only. Multi-character stack
// symbols may be written back to back; the split prefers longer symbols and
// falls back to shorter ones when needed.
func ParsePushdownAutomaton(fields []string) (*PushdownAutomaton, error) {
	if len(fields) < pdaMinFields {
		return nil, malformed("pushdown automaton needs at least %d fields, got %d", pdaMinFields, len(fields))
	}

	def, err := newDefinition(fields[1], fields[2], fields[4], fields[5])
	if err != nil {
		return nil, err
	}

	p := &PushdownAutomaton{
		Definition:  def,
		stackSet:    make(map[string]struct{}),
		maxTokenLen: len(StackBottom),
		transitions: make(map[pdaKey]pdaAction),
	}

	for _, sym := range splitList(fields[3]) {
		if sym == StackBottom {
			return nil, malformed("stack bottom marker %q declared as a stack symbol", StackBottom)
		}
		if _, ok := p.stackSet[sym]; ok {
			continue
		}
		p.stackSet[sym] = struct{}{}
		p.stackSymbols = append(p.stackSymbols, sym)
		p.maxTokenLen = max(p.maxTokenLen, len(sym))
	}

	p.initialStack = strings.TrimSpace(fields[6])
	if _, ok := p.stackSet[p.initialStack]; !ok {
		return nil, malformed("initial stack symbol %q is not declared", p.initialStack)
	}

	for _, line := range fields[pdaMinFields-1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := p.addTransition(line); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *PushdownAutomaton) addTransition(line string) error {
	left, right, err := splitTransition(line)
	if err != nil {
		return err
	}
	if len(left) != 3 || len(right) != 2 {
		return malformed("transition %q must read state,symbol,top->next,push", line)
	}

	from, err := p.state(left[0])
	if err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}
	if err := p.inputSymbol(left[1]); err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}
	if !p.isStackSymbol(left[2]) {
		return malformed("transition %q: stack symbol %q is not declared", line, left[2])
	}
	next, err := p.state(right[0])
	if err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}
	tokens, err := p.tokenize(right[1])
	if err != nil {
		return fmt.Errorf("transition %q: %w", line, err)
	}

	key := pdaKey{state: from, symbol: left[1], top: left[2]}
	if _, ok := p.transitions[key]; ok {
		return malformed("transition %q: duplicate key %s,%s,%s", line, left[0], left[1], left[2])
	}

	// Only the symbols after the last bottom marker are pushed.
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] == StackBottom {
			tokens = tokens[i+1:]
			break
		}
	}
	p.transitions[key] = pdaAction{next: next, push: tokens}
	return nil
}

func (p *PushdownAutomaton) isStackSymbol(sym string) bool {
	if sym == StackBottom {
		return true
	}
	_, ok := p.stackSet[sym]
	return ok
}

// tokenize splits a push string into stack symbols. Longer symbols are
// tried first and shorter ones are tried when the rest cannot be split, so
// with symbols A, AB and BC the string "ABC" reads as A, BC.
func (p *PushdownAutomaton) tokenize(s string) ([]string, error) {
	if s == "" {
		return nil, malformed("empty push sequence, use %q to push nothing", StackBottom)
	}

	dead := make(map[int]bool)
	var split func(i int) []string
	split = func(i int) []string {
		if i == len(s) {
			return []string{}
		}
		if dead[i] {
			return nil
		}
		for n := min(p.maxTokenLen, len(s)-i); n > 0; n-- {
			if !p.isStackSymbol(s[i : i+n]) {
				continue
			}
			if rest := split(i + n); rest != nil {
				return append([]string{s[i : i+n]}, rest...)
			}
		}
		dead[i] = true
		return nil
	}

	tokens := split(0)
	if tokens == nil {
		return nil, malformed("push sequence %q cannot be split into declared stack symbols", s)
	}
	return tokens, nil
}

// StackAlphabet returns the declared stack symbols in declaration order.
func (p *PushdownAutomaton) StackAlphabet() []string {
	return slices.Clone(p.stackSymbols)
}

// InitialStackSymbol returns the symbol placed above StackBottom at the start of a run.
func (p *PushdownAutomaton) InitialStackSymbol() string {
	return p.initialStack
}

// Configuration is a PDA state together with its stack. Stack is listed
// bottom first and starts with StackBottom.
type Configuration struct {
	State string
	Stack []string
}

// String renders the configuration as a trace entry, e.g. "q1#AZ".
func (c Configuration) String() string {
	s := &pdaStack{data: c.Stack}
	if len(c.Stack) == 0 || c.Stack[0] != StackBottom {
		s = newPdaStack(c.Stack...)
	}
	return c.State + "#" + s.String()
}

// Start returns the configuration every run begins in.
func (p *PushdownAutomaton) Start() Configuration {
	return Configuration{
		State: p.StartState(),
		Stack: []string{StackBottom, p.initialStack},
	}
}

// Closure follows epsilon transitions from c until none applies, an accept
// state is reached, or the moves stop making progress.
func (p *PushdownAutomaton) Closure(c Configuration) Configuration {
	state, ok := p.stateIndex[c.State]
	if !ok {
		return Configuration{State: c.State, Stack: slices.Clone(c.Stack)}
	}
	stack := &pdaStack{data: slices.Clone(c.Stack)}
	if len(c.Stack) == 0 || c.Stack[0] != StackBottom {
		stack = newPdaStack(c.Stack...)
	}

	r := &pdaRun{p: p, state: state, stack: stack, reporter: NopReporter{}}
	r.closure()
	return r.configuration()
}

// Run simulates the automaton over input. The returned Result is Stuck when
// some symbol had no transition, otherwise Accepted or Rejected depending on
// the final state.
func (p *PushdownAutomaton) Run(input []string, opts ...RunOption) *Result {
	o := newRunOptions(opts...)
	r := &pdaRun{
		p:        p,
		state:    p.start,
		stack:    newPdaStack(p.initialStack),
		reporter: o.reporter,
	}

	r.begin()
	r.closure()
	for _, sym := range input {
		if sym == Epsilon || !r.apply(sym) {
			return r.end(Stuck)
		}
		r.consumed++
		r.closure()
	}

	if p.isAccept(r.state) {
		return r.end(Accepted)
	}
	return r.end(Rejected)
}

// pdaRun is the mutable part of one simulation.
type pdaRun struct {
	p        *PushdownAutomaton
	state    int
	stack    *pdaStack
	trace    []string
	consumed int
	reporter Reporter
}

func (r *pdaRun) entry() string {
	return r.p.states[r.state] + "#" + r.stack.String()
}

func (r *pdaRun) configuration() Configuration {
	return Configuration{State: r.p.states[r.state], Stack: r.stack.symbols()}
}

func (r *pdaRun) begin() {
	e := r.entry()
	r.trace = append(r.trace, e)
	r.reporter.Report(Event{
		Kind:      EventStart,
		Automaton: KindPDA,
		To:        []string{r.p.states[r.state]},
		Entry:     e,
	})
}

// apply performs the transition keyed by (state, symbol, top) and reports
// whether one existed.
func (r *pdaRun) apply(symbol string) bool {
	top := r.stack.top()
	action, ok := r.p.transitions[pdaKey{state: r.state, symbol: symbol, top: top}]
	if !ok {
		return false
	}

	from := r.state
	if top != StackBottom {
		r.stack.pop()
	}
	r.stack.push(action.push...)
	r.state = action.next

	e := r.entry()
	r.trace = append(r.trace, e)
	r.reporter.Report(Event{
		Kind:      EventTransition,
		Automaton: KindPDA,
		From:      []string{r.p.states[from]},
		To:        []string{r.p.states[r.state]},
		Symbol:    symbol,
		Entry:     e,
	})
	return true
}

// closure applies epsilon transitions until none matches or an accept state
// is reached; it never leaves an accept state. A (state, top) pair seen
// again while nothing below its stack position was exposed means the moves
// repeat forever, so the loop stops there.
func (r *pdaRun) closure() {
	seen := make(map[pdaKey]int)
	for !r.p.isAccept(r.state) {
		h := r.stack.height()
		for k, kh := range seen {
			if kh > h {
				delete(seen, k)
			}
		}

		key := pdaKey{state: r.state, symbol: Epsilon, top: r.stack.top()}
		if _, ok := r.p.transitions[key]; !ok {
			return
		}
		if _, ok := seen[key]; ok {
			r.reporter.Report(Event{
				Kind:      EventEpsilonLoop,
				Automaton: KindPDA,
				From:      []string{r.p.states[r.state]},
				Entry:     r.entry(),
			})
			return
		}
		seen[key] = h
		r.apply(Epsilon)
	}
}

func (r *pdaRun) end(outcome Outcome) *Result {
	r.reporter.Report(Event{
		Kind:      EventEnd,
		Automaton: KindPDA,
		To:        []string{r.p.states[r.state]},
		Outcome:   outcome,
	})
	return &Result{
		Outcome:  outcome,
		Trace:    Trace{Entries: r.trace, Outcome: outcome},
		Consumed: r.consumed,
	}
}
