package query

// NotProp returns the negation of p, pushed structurally down to the
// facts so the result stays in negation normal form (NNF): negation
// only ever wraps a GroundFact.
func NotProp(p Proposition) Proposition {
	switch t := p.(type) {
	case TrueProp:
		return PropFalse
	case FalseProp:
		return PropTrue
	case AssertProp:
		return Assert(NegateFact(t.Fact))
	case Conjunction:
		ops := t.Operands()
		negated := make([]Proposition, len(ops))
		for i, op := range ops {
			negated[i] = NotProp(op)
		}
		return Or(negated[0], negated[1], negated[2:]...)
	case Disjunction:
		ops := t.Operands()
		negated := make([]Proposition, len(ops))
		for i, op := range ops {
			negated[i] = NotProp(op)
		}
		return And(negated[0], negated[1], negated[2:]...)
	default:
		panic("query: unknown Proposition type")
	}
}

// Not returns the negation of q, pushed structurally down so the
// result stays in NNF: And/Or dualize, Exists/All dualize, and
// Formula's proposition is negated via NotProp. Size-linear in the
// size of q.
func Not(q Query) Query {
	switch t := q.(type) {
	case FormulaQuery:
		return Formula(NotProp(t.Prop))
	case TTQuery:
		return FF
	case FFQuery:
		return TT
	case AndQuery:
		ops := t.Operands()
		negated := make([]Query, len(ops))
		for i, op := range ops {
			negated[i] = Not(op)
		}
		return Or(negated[0], negated[1], negated[2:]...)
	case OrQuery:
		ops := t.Operands()
		negated := make([]Query, len(ops))
		for i, op := range ops {
			negated[i] = Not(op)
		}
		return And(negated[0], negated[1], negated[2:]...)
	case ExistsQuery:
		return All(t.Path, Not(t.Query))
	case AllQuery:
		return Exists(t.Path, Not(t.Query))
	default:
		panic("query: unknown Query type")
	}
}
