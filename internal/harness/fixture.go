package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	automaton "github.com/geange/automata-sim"
)

const (
	sequenceSeparator = "|"
	symbolSeparator   = ","
	caseDirPrefix     = "test"
)

// Case is one fixture: a definition, the sequences to feed it and one
// expected trace per sequence.
type Case struct {
	Kind string
	Num  int
	// Definition is the whole input file; its first line, the sequence list,
	// doubles as the ignored header field.
	Definition []string
	Sequences  [][]string
	Expected   []string
}

// InputPath returns where the input file of case num lives under root.
func InputPath(root, kind string, num int) string {
	return filepath.Join(caseDir(root, kind, num), "test."+extension(kind, "in"))
}

// OutputPath returns where the expected traces of case num live under root.
func OutputPath(root, kind string, num int) string {
	return filepath.Join(caseDir(root, kind, num), "test."+extension(kind, "out"))
}

func caseDir(root, kind string, num int) string {
	return filepath.Join(root, kind, caseDirPrefix+strconv.Itoa(num))
}

func extension(kind, ext string) string {
	if kind == automaton.KindNFA {
		return ext + ".txt"
	}
	return ext
}

// LoadCase reads case num of the given kind from root.
func LoadCase(root, kind string, num int) (*Case, error) {
	input, err := readLines(InputPath(root, kind, num))
	if err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("case %d: empty input file %s", num, InputPath(root, kind, num))
	}
	expected, err := readLines(OutputPath(root, kind, num))
	if err != nil {
		return nil, err
	}

	return &Case{
		Kind:       kind,
		Num:        num,
		Definition: input,
		Sequences:  ParseSequences(input[0]),
		Expected:   expected,
	}, nil
}

// ParseSequences splits "a,b|c|" style lines. An empty sequence has no symbols.
func ParseSequences(line string) [][]string {
	parts := strings.Split(strings.TrimSpace(line), sequenceSeparator)
	sequences := make([][]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			sequences = append(sequences, []string{})
			continue
		}
		symbols := strings.Split(p, symbolSeparator)
		for i := range symbols {
			symbols[i] = strings.TrimSpace(symbols[i])
		}
		sequences = append(sequences, symbols)
	}
	return sequences
}

// Discover lists the case numbers available for kind under root, ascending.
func Discover(root, kind string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(root, kind))
	if err != nil {
		return nil, fmt.Errorf("discover %s fixtures: %w", kind, err)
	}
	var nums []int
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), caseDirPrefix) {
			continue
		}
		num, err := strconv.Atoi(strings.TrimPrefix(e.Name(), caseDirPrefix))
		if err != nil || num < 1 {
			continue
		}
		nums = append(nums, num)
	}
	slices.Sort(nums)
	return nums, nil
}

// readLines returns the file's lines without line endings or trailing blank lines.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
