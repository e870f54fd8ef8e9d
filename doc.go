// Package automaton simulates deterministic pushdown automata and
// nondeterministic finite automata with epsilon transitions.
//
// Definitions are parsed once from a list of text fields and are read-only
// afterwards. Every Run works on its own stack or frontier and returns a
// Result whose Trace renders as "entry|entry|...|1".
package automaton
