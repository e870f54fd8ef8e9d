package automaton

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strings over {a,b} containing "ab"
var containsABFields = []string{
	"header",
	"q0,q1,q2",
	"a,b",
	"q2",
	"q0",
	"q0,a->q0,q1",
	"q0,b->q0",
	"q1,b->q2",
	"q2,a->q2",
	"q2,b->q2",
}

// A and B reach each other on epsilon.
var epsilonCycleFields = []string{
	"header",
	"A,B,C",
	"x",
	"C",
	"A",
	"A,$->B",
	"B,$->A",
	"B,x->C",
	"C,x->#",
}

func mustNFA(t *testing.T, fields ...string) *EpsilonNFA {
	t.Helper()
	n, err := ParseEpsilonNFA(fields)
	require.NoError(t, err)
	return n
}

func TestEpsilonNFA_Run(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		input    string
		outcome  Outcome
		trace    string
		consumed int
	}{
		{
			name:     "contains ab",
			fields:   containsABFields,
			input:    "a,a,b",
			outcome:  Accepted,
			trace:    "q0|q0,q1|q0,q1|q0,q2|1",
			consumed: 3,
		},
		{
			name:     "ba",
			fields:   containsABFields,
			input:    "b,a",
			outcome:  Rejected,
			trace:    "q0|q0|q0,q1|0",
			consumed: 2,
		},
		{
			name:     "aba",
			fields:   containsABFields,
			input:    "a,b,a",
			outcome:  Accepted,
			trace:    "q0|q0,q1|q0,q2|q0,q1,q2|1",
			consumed: 3,
		},
		{
			name:    "empty input",
			fields:  containsABFields,
			input:   "",
			outcome: Rejected,
			trace:   "q0|0",
		},
		{
			name:     "undeclared symbol kills the frontier",
			fields:   containsABFields,
			input:    "c,a",
			outcome:  Dead,
			trace:    "q0|#|fail|0",
			consumed: 1,
		},
		{
			name:     "epsilon cycle",
			fields:   epsilonCycleFields,
			input:    "x",
			outcome:  Accepted,
			trace:    "A,B|C|1",
			consumed: 1,
		},
		{
			name:     "explicit empty target",
			fields:   epsilonCycleFields,
			input:    "x,x,x",
			outcome:  Dead,
			trace:    "A,B|C|#|fail|0",
			consumed: 2,
		},
		{
			name:    "epsilon cycle without input",
			fields:  epsilonCycleFields,
			input:   "",
			outcome: Rejected,
			trace:   "A,B|0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustNFA(t, tt.fields...)
			res := n.Run(symbols(tt.input))
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.trace, res.Trace.String())
			assert.Equal(t, tt.consumed, res.Consumed)
		})
	}
}

func TestEpsilonNFA_Closure(t *testing.T) {
	n := mustNFA(t, epsilonCycleFields...)

	assert.Equal(t, []string{"A", "B"}, n.Closure("A"))
	assert.Equal(t, []string{"A", "B"}, n.Closure("B"))
	assert.Equal(t, []string{"C"}, n.Closure("C"))
	assert.Equal(t, []string{"A", "B", "C"}, n.Closure("C", "A"))
	assert.Equal(t, []string{}, n.Closure())
	assert.Equal(t, []string{"A", "B"}, n.Closure("A", "nope"))

	once := n.Closure("A")
	assert.Equal(t, once, n.Closure(once...))

	t.Run("chain", func(t *testing.T) {
		chain := mustNFA(t, "header", "s0,s1,s2,s3", "a", "s3", "s0",
			"s0,$->s1",
			"s1,$->s2,s0",
			"s2,$->s3",
			"s3,$->s1",
		)
		assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, chain.Closure("s0"))
		assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, chain.Closure("s3"))
		assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, chain.Closure(chain.Closure("s2")...))
	})
}

func TestEpsilonNFA_DeadIsSticky(t *testing.T) {
	n := mustNFA(t, epsilonCycleFields...)

	dead := n.Step([]string{"C"}, "x")
	assert.Empty(t, dead)
	for _, sym := range []string{"x", "$", "y"} {
		assert.Empty(t, n.Step(dead, sym))
	}

	assert.Equal(t, []string{"C"}, n.Step(n.Closure("A"), "x"))
	assert.Empty(t, n.Step([]string{"A"}, "x"))
	assert.Empty(t, n.Step([]string{"A"}, Epsilon))
}

func TestParseEpsilonNFA(t *testing.T) {
	n := mustNFA(t, containsABFields...)
	assert.Equal(t, []string{"q0", "q1", "q2"}, n.States())
	assert.Equal(t, []string{"a", "b"}, n.Alphabet())
	assert.Equal(t, []string{"q2"}, n.AcceptStates())
	assert.Equal(t, "q0", n.StartState())

	malformedCases := []struct {
		name   string
		change func([]string) []string
	}{
		{"too few fields", func(f []string) []string { return f[:5] }},
		{"undeclared start state", func(f []string) []string { f[4] = "q9"; return f }},
		{"undeclared accept state", func(f []string) []string { f[3] = "q9"; return f }},
		{"duplicate key", func(f []string) []string { return append(f, "q0,a->q2") }},
		{"wrong arity", func(f []string) []string { return append(f, "q1,a,b->q2") }},
		{"undeclared source", func(f []string) []string { return append(f, "q9,a->q2") }},
		{"undeclared target", func(f []string) []string { return append(f, "q1,a->q2,q9") }},
		{"undeclared symbol", func(f []string) []string { return append(f, "q1,c->q2") }},
		{"missing separator", func(f []string) []string { return append(f, "q1,a,q2") }},
	}

	for _, tt := range malformedCases {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.change(append([]string{}, containsABFields...))
			n, err := ParseEpsilonNFA(fields)
			assert.ErrorIs(t, err, ErrMalformedDefinition)
			assert.Nil(t, n)
		})
	}
}

func TestEpsilonNFA_ConcurrentRuns(t *testing.T) {
	n := mustNFA(t, containsABFields...)
	inputs := []string{"a,a,b", "b,a", "a,b,a", "", "b,b,b,a,b", "a,a,a"}

	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = n.Run(symbols(in)).Trace.String()
	}

	got := make([]string, len(inputs)*10)
	var wg sync.WaitGroup
	for i := range got {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = n.Run(symbols(inputs[i%len(inputs)])).Trace.String()
		}()
	}
	wg.Wait()

	for i, trace := range got {
		assert.Equal(t, want[i%len(inputs)], trace)
	}
}
