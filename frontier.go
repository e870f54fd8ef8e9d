package automaton

import (
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// frontier is a set of state indexes of one Definition.
type frontier struct {
	*bitset.BitSet
}

func newFrontier(d *Definition, states ...int) frontier {
	f := frontier{bitset.New(uint(len(d.states)))}
	for _, s := range states {
		f.Set(uint(s))
	}
	return f
}

func (f frontier) clone() frontier {
	return frontier{f.Clone()}
}

// each calls fn for every member in increasing index order.
func (f frontier) each(fn func(state int)) {
	for i, ok := f.NextSet(0); ok; i, ok = f.NextSet(i + 1) {
		fn(int(i))
	}
}

// labels returns the member labels sorted lexicographically.
func (f frontier) labels(d *Definition) []string {
	out := make([]string, 0, f.Count())
	f.each(func(s int) {
		out = append(out, d.states[s])
	})
	slices.Sort(out)
	return out
}

// entry renders the frontier as a trace entry; EmptyTarget stands for the
// empty set.
func (f frontier) entry(d *Definition) string {
	if f.None() {
		return EmptyTarget
	}
	return strings.Join(f.labels(d), listSeparator)
}

func (f frontier) accepts(d *Definition) bool {
	return f.IntersectionCardinality(d.accept) > 0
}
