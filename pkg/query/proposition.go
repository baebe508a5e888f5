package query

import "strings"

// Proposition is a finite tree built from True, False, Assert(fact),
// Conjunction(p1, p2, ...) and Disjunction(p1, p2, ...), evaluated at a
// single trace position. Conjunction/Disjunction carry at least two
// operands by construction (first, second, rest).
type Proposition interface {
	isProposition()
	String() string
}

// TrueProp is the always-true proposition.
type TrueProp struct{}

func (TrueProp) isProposition() {}
func (TrueProp) String() string { return "true" }

// FalseProp is the always-false proposition.
type FalseProp struct{}

func (FalseProp) isProposition() {}
func (FalseProp) String() string { return "false" }

// PropTrue and PropFalse are the canonical True/False propositions.
var (
	PropTrue  Proposition = TrueProp{}
	PropFalse Proposition = FalseProp{}
)

// AssertProp asserts that a single fact holds at the current position.
type AssertProp struct{ Fact Fact }

func (AssertProp) isProposition() {}
func (p AssertProp) String() string { return p.Fact.String() }

// Assert builds an AssertProp.
func Assert(f Fact) Proposition { return AssertProp{Fact: f} }

// Conjunction is a variadic "and" over at least two propositions.
type Conjunction struct {
	First, Second Proposition
	Rest          []Proposition
}

func (Conjunction) isProposition() {}
func (c Conjunction) Operands() []Proposition {
	ops := make([]Proposition, 0, 2+len(c.Rest))
	ops = append(ops, c.First, c.Second)
	return append(ops, c.Rest...)
}
func (c Conjunction) String() string { return joinProps(c.Operands(), " ∧ ") }

// Disjunction is a variadic "or" over at least two propositions.
type Disjunction struct {
	First, Second Proposition
	Rest          []Proposition
}

func (Disjunction) isProposition() {}
func (d Disjunction) Operands() []Proposition {
	ops := make([]Proposition, 0, 2+len(d.Rest))
	ops = append(ops, d.First, d.Second)
	return append(ops, d.Rest...)
}
func (d Disjunction) String() string { return joinProps(d.Operands(), " ∨ ") }

// And builds a Conjunction, flattening nested Conjunctions so repeated
// evaluation and structural hashing stay stable. The signature takes
// at least two operands: variadic connectives have arity >= 2 by
// construction.
func And(p1, p2 Proposition, rest ...Proposition) Proposition {
	ops := flattenProps(p1, p2, rest, func(p Proposition) ([]Proposition, bool) {
		c, ok := p.(Conjunction)
		if !ok {
			return nil, false
		}
		return c.Operands(), true
	})
	return Conjunction{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

// Or builds a Disjunction, flattening nested Disjunctions.
func Or(p1, p2 Proposition, rest ...Proposition) Proposition {
	ops := flattenProps(p1, p2, rest, func(p Proposition) ([]Proposition, bool) {
		d, ok := p.(Disjunction)
		if !ok {
			return nil, false
		}
		return d.Operands(), true
	})
	return Disjunction{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

func flattenProps(p1, p2 Proposition, rest []Proposition, unwrap func(Proposition) ([]Proposition, bool)) []Proposition {
	all := make([]Proposition, 0, 2+len(rest))
	all = append(all, p1, p2)
	all = append(all, rest...)

	flat := make([]Proposition, 0, len(all))
	for _, p := range all {
		if ops, ok := unwrap(p); ok {
			flat = append(flat, ops...)
			continue
		}
		flat = append(flat, p)
	}
	return flat
}

func joinProps(ops []Proposition, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// EvalProp evaluates a proposition against a set of facts holding at
// the current trace position, per §4.3's inductive definition:
// True/False are constants; Assert(Neg(f)) holds iff f is absent;
// Assert(f) holds iff f is present; Conjunction/Disjunction combine
// their operands. Short-circuiting is permitted but not required; this
// implementation short-circuits.
func EvalProp(p Proposition, facts FactSet) bool {
	switch t := p.(type) {
	case TrueProp:
		return true
	case FalseProp:
		return false
	case AssertProp:
		return evalFact(t.Fact, facts)
	case Conjunction:
		for _, op := range t.Operands() {
			if !EvalProp(op, facts) {
				return false
			}
		}
		return true
	case Disjunction:
		for _, op := range t.Operands() {
			if EvalProp(op, facts) {
				return true
			}
		}
		return false
	default:
		panic("query: unknown Proposition type")
	}
}

func evalFact(f Fact, facts FactSet) bool {
	present := facts.Contains(f.Ground())
	if f.Negated() {
		return !present
	}
	return present
}

// FactSet is the set of ground facts holding at one trace position.
type FactSet struct {
	byKey map[string]GroundFact
}

// NewFactSet builds a FactSet from a list of ground facts.
func NewFactSet(facts ...GroundFact) FactSet {
	m := make(map[string]GroundFact, len(facts))
	for _, f := range facts {
		m[f.Key()] = f
	}
	return FactSet{byKey: m}
}

// Contains reports whether a structurally equal fact is in the set.
func (s FactSet) Contains(f GroundFact) bool {
	_, ok := s.byKey[f.Key()]
	return ok
}

// Facts returns the ground facts in the set, in no particular order.
func (s FactSet) Facts() []GroundFact {
	out := make([]GroundFact, 0, len(s.byKey))
	for _, f := range s.byKey {
		out = append(out, f)
	}
	return out
}
