package query

import "strings"

// Path is a regular expression over trace steps and inline tests:
// AssertFact(p) consumes one step where p holds, Test(q) asserts q
// holds now without consuming a step, and Choice/Sequence/Repeat
// combine sub-paths.
type Path interface {
	isPath()
	String() string
}

// AssertFactPath consumes one trace step at which p must hold.
type AssertFactPath struct{ Prop Proposition }

func (AssertFactPath) isPath()      {}
func (p AssertFactPath) String() string { return p.Prop.String() }

// AssertFact builds an AssertFactPath.
func AssertFact(p Proposition) Path { return AssertFactPath{Prop: p} }

// TestPath is a zero-length step asserting that q holds now.
type TestPath struct{ Query Query }

func (TestPath) isPath()      {}
func (p TestPath) String() string { return p.Query.String() + "?" }

// Test builds a TestPath.
func Test(q Query) Path { return TestPath{Query: q} }

// ChoicePath tries each sub-path as an alternative.
type ChoicePath struct {
	First, Second Path
	Rest          []Path
}

func (ChoicePath) isPath() {}
func (c ChoicePath) Operands() []Path {
	ops := make([]Path, 0, 2+len(c.Rest))
	return append(append(ops, c.First, c.Second), c.Rest...)
}
func (c ChoicePath) String() string { return joinPaths(c.Operands(), " | ") }

// Choice builds a ChoicePath, flattening nested choices.
func Choice(p1, p2 Path, rest ...Path) Path {
	ops := flattenPaths(p1, p2, rest, func(p Path) ([]Path, bool) {
		c, ok := p.(ChoicePath)
		if !ok {
			return nil, false
		}
		return c.Operands(), true
	})
	return ChoicePath{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

// SequencePath runs each sub-path in order.
type SequencePath struct {
	First, Second Path
	Rest          []Path
}

func (SequencePath) isPath() {}
func (s SequencePath) Operands() []Path {
	ops := make([]Path, 0, 2+len(s.Rest))
	return append(append(ops, s.First, s.Second), s.Rest...)
}
func (s SequencePath) String() string { return joinPaths(s.Operands(), " ; ") }

// Sequence builds a SequencePath, flattening nested sequences.
func Sequence(p1, p2 Path, rest ...Path) Path {
	ops := flattenPaths(p1, p2, rest, func(p Path) ([]Path, bool) {
		s, ok := p.(SequencePath)
		if !ok {
			return nil, false
		}
		return s.Operands(), true
	})
	return SequencePath{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

// RepeatPath is zero-or-more repetitions of its sub-path.
type RepeatPath struct{ Inner Path }

func (RepeatPath) isPath()      {}
func (r RepeatPath) String() string { return "(" + r.Inner.String() + ")*" }

// Repeat builds a RepeatPath.
func Repeat(p Path) Path { return RepeatPath{Inner: p} }

// SequenceOf rebuilds a single Path from a slice of at least one
// sub-path, collapsing to the lone element when len(ops) == 1. Shared
// by the evaluator and the SMT encoder when they peel the first
// operand off a Sequence and need to re-pack the remainder.
func SequenceOf(ops []Path) Path {
	if len(ops) == 1 {
		return ops[0]
	}
	return Sequence(ops[0], ops[1], ops[2:]...)
}

func flattenPaths(p1, p2 Path, rest []Path, unwrap func(Path) ([]Path, bool)) []Path {
	all := make([]Path, 0, 2+len(rest))
	all = append(all, p1, p2)
	all = append(all, rest...)

	flat := make([]Path, 0, len(all))
	for _, p := range all {
		if ops, ok := unwrap(p); ok {
			flat = append(flat, ops...)
			continue
		}
		flat = append(flat, p)
	}
	return flat
}

func joinPaths(ops []Path, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// TestOnly reports whether π contains no AssertFact step — only Test
// steps combined by Choice/Sequence/Repeat — and therefore consumes no
// trace position. The evaluator uses this to short-circuit Repeat
// unwinding: a Repeat over a test-only body is evaluated as its
// continuation alone (§4.3 rule 8).
func TestOnly(p Path) bool {
	switch t := p.(type) {
	case AssertFactPath:
		return false
	case TestPath:
		return true
	case ChoicePath:
		for _, op := range t.Operands() {
			if !TestOnly(op) {
				return false
			}
		}
		return true
	case SequencePath:
		for _, op := range t.Operands() {
			if !TestOnly(op) {
				return false
			}
		}
		return true
	case RepeatPath:
		return TestOnly(t.Inner)
	default:
		panic("query: unknown Path type")
	}
}
