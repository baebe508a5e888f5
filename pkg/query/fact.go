package query

import (
	"fmt"
	"strings"
)

// GroundFact is a named predicate holding over an ordered tuple of
// attribute values, e.g. Gesture("biceps-curl", 0.87, LeftWrist).
// Equality is structural.
type GroundFact struct {
	Name string
	Args []Value
}

// NewGroundFact builds a GroundFact from a name and attribute values.
func NewGroundFact(name string, args ...Value) GroundFact {
	return GroundFact{Name: name, Args: append([]Value(nil), args...)}
}

// Equal reports structural equality between two ground facts.
func (f GroundFact) Equal(other GroundFact) bool {
	if f.Name != other.Name || len(f.Args) != len(other.Args) {
		return false
	}
	for i, a := range f.Args {
		if !ValuesEqual(a, other.Args[i]) {
			return false
		}
	}
	return true
}

// Key returns a canonical string usable as a map key and as the
// uninterpreted-predicate identifier the SMT backend encodes this fact
// with. Two structurally equal facts always produce the same key.
func (f GroundFact) Key() string {
	var b strings.Builder
	b.WriteString(f.Name)
	for _, a := range f.Args {
		b.WriteByte('\x1f')
		// Tag each value with its kind so that, e.g., StringValue("wrist")
		// and LocationValue(LocationWrist) do not share a key.
		fmt.Fprintf(&b, "%T:%s", a, a.String())
	}
	return b.String()
}

func (f GroundFact) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Fact is either a GroundFact or its negation. Facts are in literal
// form: negation is never nested (Neg(Neg(f)) does not occur; NNF
// construction collapses it to f, see negate.go).
type Fact interface {
	isFact()
	Ground() GroundFact
	Negated() bool
	String() string
}

// PosFact asserts that its GroundFact holds.
type PosFact struct{ Fact GroundFact }

func (PosFact) isFact()             {}
func (f PosFact) Ground() GroundFact { return f.Fact }
func (PosFact) Negated() bool       { return false }
func (f PosFact) String() string    { return f.Fact.String() }

// NegFact asserts that its GroundFact does not hold.
type NegFact struct{ Fact GroundFact }

func (NegFact) isFact()             {}
func (f NegFact) Ground() GroundFact { return f.Fact }
func (NegFact) Negated() bool       { return true }
func (f NegFact) String() string    { return "¬" + f.Fact.String() }

// NegateFact returns the literal-form negation of a fact: Neg(f) for a
// positive fact, f for a negative one (negation never nests).
func NegateFact(f Fact) Fact {
	if f.Negated() {
		return PosFact{Fact: f.Ground()}
	}
	return NegFact{Fact: f.Ground()}
}
