package query

import "fmt"

// QueryValue is the monitor's output lattice: a committed Stable
// verdict, or an Unstable residual that depends on the remainder of
// the trace. Ordering: Stable(false) < any Unstable < Stable(true).
type QueryValue interface {
	isQueryValue()
	String() string
}

// Stable is a committed verdict: no future trace can change it.
type Stable struct{ Value bool }

func (Stable) isQueryValue() {}
func (s Stable) String() string {
	if s.Value {
		return "stable(true)"
	}
	return "stable(false)"
}

// Unstable carries the query that must hold from the next trace
// position onward for the overall verdict to be true.
type Unstable struct{ Residual Query }

func (Unstable) isQueryValue() {}
func (u Unstable) String() string {
	return fmt.Sprintf("unstable(%s)", u.Residual.String())
}

// StableTrue, StableFalse are the two committed verdicts.
var (
	StableTrue  QueryValue = Stable{Value: true}
	StableFalse QueryValue = Stable{Value: false}
)

// Meet is the lattice meet (∧) of two QueryValues, per §4.1's table:
//
//	Stable(a), Stable(b)       -> Stable(a ∧ b)
//	Unstable(x), Unstable(y)   -> Unstable(And(x, y))
//	Stable(true), Unstable(y)  -> Unstable(y)
//	Stable(false), Unstable(y) -> Stable(false)
func Meet(a, b QueryValue) QueryValue {
	switch av := a.(type) {
	case Stable:
		if !av.Value {
			return StableFalse
		}
		switch bv := b.(type) {
		case Stable:
			return boolStable(bv.Value)
		case Unstable:
			return bv
		}
	case Unstable:
		switch bv := b.(type) {
		case Stable:
			return Meet(b, a)
		case Unstable:
			return Unstable{Residual: And(av.Residual, bv.Residual)}
		}
	}
	panic("query: unknown QueryValue type")
}

// Join is the lattice join (∨) of two QueryValues, dual to Meet:
//
//	Stable(a), Stable(b)       -> Stable(a ∨ b)
//	Unstable(x), Unstable(y)   -> Unstable(Or(x, y))
//	Stable(true), Unstable(y)  -> Stable(true)
//	Stable(false), Unstable(y) -> Unstable(y)
func Join(a, b QueryValue) QueryValue {
	switch av := a.(type) {
	case Stable:
		if av.Value {
			return StableTrue
		}
		switch bv := b.(type) {
		case Stable:
			return boolStable(bv.Value)
		case Unstable:
			return bv
		}
	case Unstable:
		switch bv := b.(type) {
		case Stable:
			return Join(b, a)
		case Unstable:
			return Unstable{Residual: Or(av.Residual, bv.Residual)}
		}
	}
	panic("query: unknown QueryValue type")
}

// Complement negates a QueryValue: complement(Stable(b)) = Stable(¬b),
// complement(Unstable(q)) = Unstable(Not(q)).
func Complement(v QueryValue) QueryValue {
	switch t := v.(type) {
	case Stable:
		return boolStable(!t.Value)
	case Unstable:
		return Unstable{Residual: Not(t.Residual)}
	default:
		panic("query: unknown QueryValue type")
	}
}

func boolStable(b bool) QueryValue {
	if b {
		return StableTrue
	}
	return StableFalse
}

// MeetAll folds Meet over a non-empty slice of QueryValues.
func MeetAll(vs []QueryValue) QueryValue {
	acc := vs[0]
	for _, v := range vs[1:] {
		acc = Meet(acc, v)
	}
	return acc
}

// JoinAll folds Join over a non-empty slice of QueryValues.
func JoinAll(vs []QueryValue) QueryValue {
	acc := vs[0]
	for _, v := range vs[1:] {
		acc = Join(acc, v)
	}
	return acc
}
