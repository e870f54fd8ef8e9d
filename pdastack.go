package automaton

import (
	"slices"
	"strings"
)

// pdaStack always holds StackBottom at index 0. The top is the last element.
type pdaStack struct {
	data []string
}

func newPdaStack(symbols ...string) *pdaStack {
	s := &pdaStack{data: make([]string, 0, len(symbols)+4)}
	s.data = append(s.data, StackBottom)
	s.data = append(s.data, symbols...)
	return s
}

func (s *pdaStack) top() string {
	return s.data[len(s.data)-1]
}

// height counts the bottom marker.
func (s *pdaStack) height() int {
	return len(s.data)
}

func (s *pdaStack) pop() string {
	if len(s.data) <= 1 {
		panic("automaton: pop below the stack bottom marker")
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v
}

// push places symbols so that symbols[0] ends up on top.
func (s *pdaStack) push(symbols ...string) {
	for i := len(symbols) - 1; i >= 0; i-- {
		s.data = append(s.data, symbols[i])
	}
}

// String lists the stack top first without the bottom marker, or returns
// StackBottom when nothing else is on the stack.
func (s *pdaStack) String() string {
	if len(s.data) == 1 {
		return StackBottom
	}
	var sb strings.Builder
	for i := len(s.data) - 1; i >= 1; i-- {
		sb.WriteString(s.data[i])
	}
	return sb.String()
}

func (s *pdaStack) symbols() []string {
	return slices.Clone(s.data)
}
