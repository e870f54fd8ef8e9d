package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_splitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("   "))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b ,,c "))
}

func Test_splitTransition(t *testing.T) {
	left, right, err := splitTransition(" q0, a ,Z -> q1 , AZ ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"q0", "a", "Z"}, left)
	assert.Equal(t, []string{"q1", "AZ"}, right)

	_, _, err = splitTransition("q0,a,Z")
	assert.ErrorIs(t, err, ErrMalformedDefinition)
}

func TestDefinition(t *testing.T) {
	d, err := newDefinition("q0, q1,q2", "a,b,a", "q2,q0", " q1 ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"q0", "q1", "q2"}, d.States())
	assert.Equal(t, []string{"a", "b"}, d.Alphabet())
	assert.Equal(t, []string{"q0", "q2"}, d.AcceptStates())
	assert.Equal(t, "q1", d.StartState())

	// Callers cannot reach the shared slices.
	states := d.States()
	states[0] = "changed"
	assert.Equal(t, "q0", d.States()[0])

	assert.NoError(t, d.inputSymbol(Epsilon))
	assert.ErrorIs(t, d.inputSymbol("c"), ErrMalformedDefinition)

	_, err = newDefinition("q0", "a", "", "")
	assert.ErrorIs(t, err, ErrMalformedDefinition)
}
