// Package query implements the query language of §3/§4.1: grounded
// facts, propositions over facts, regular-expression paths, and the
// linear-time dynamic logic (LDL) formulas monitors evaluate. All
// trees are kept in negation normal form; see Not in negate.go.
package query

import "fmt"

// Location is the closed set of sensor-attachment points a GroundFact
// may reference. New locations are added here, not invented ad hoc by
// callers, so that structural equality and hashing stay total.
type Location int

const (
	LocationUnknown Location = iota
	LocationWrist
	LocationWaist
	LocationAnkle
	LocationChest
)

func (l Location) String() string {
	switch l {
	case LocationWrist:
		return "wrist"
	case LocationWaist:
		return "waist"
	case LocationAnkle:
		return "ankle"
	case LocationChest:
		return "chest"
	default:
		return "unknown"
	}
}

// Value is an opaque GroundFact attribute: a string, a number, or a
// Location. It is a closed sum so attribute tuples stay comparable and
// hashable, the way the teacher keeps Term a closed interface over
// *Var/*Atom/*Pair.
type Value interface {
	isValue()
	String() string
}

// StringValue is a textual attribute, e.g. an exercise or gesture name.
type StringValue string

func (StringValue) isValue()        {}
func (v StringValue) String() string { return string(v) }

// NumberValue is a numeric attribute, e.g. a classifier probability.
// Equality is exact float64 comparison: GroundFact names are expected
// to encode any threshold semantics, per §6's workflow contract, so the
// evaluator and SMT encoder never compare numbers loosely.
type NumberValue float64

func (NumberValue) isValue()        {}
func (v NumberValue) String() string { return fmt.Sprintf("%g", float64(v)) }

// LocationValue wraps a Location as a GroundFact attribute.
type LocationValue Location

func (LocationValue) isValue()        {}
func (v LocationValue) String() string { return Location(v).String() }

// ValuesEqual reports structural equality between two attribute values.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case LocationValue:
		bv, ok := b.(LocationValue)
		return ok && av == bv
	default:
		return false
	}
}
