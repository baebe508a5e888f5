// Package eval implements the StandardEvaluator of §4.3: the pure
// one-step semantic unwinding of an LDL query against the facts
// holding at the current trace position.
package eval

import "github.com/exertio/ldlmonitor/pkg/query"

// Evaluate computes the QueryValue of q given the facts holding at the
// current trace position and whether this position is the last one in
// the trace. It implements §4.3 rules 1-9 exhaustively.
//
// The implementation recurses directly over query and path structure.
// Choice and Sequence evaluate their sub-paths in place; Sequence only
// builds the continuation query that may become the residual. Repeat
// builds the one-more-iteration query Exists(p, Exists(p*, cont)) (or
// its All dual) and evaluates it. Recursion is bounded by the static size of q: Repeat only
// unwinds one level per call, deferring the rest to a fresh Evaluate
// of the reconstructed residual at the *next* trace position, not
// within this call.
func Evaluate(q query.Query, facts query.FactSet, last bool) query.QueryValue {
	switch t := q.(type) {
	case query.FormulaQuery:
		return boolValue(query.EvalProp(t.Prop, facts))

	case query.TTQuery:
		return query.StableTrue

	case query.FFQuery:
		return query.StableFalse

	case query.AndQuery:
		ops := t.Operands()
		vals := make([]query.QueryValue, len(ops))
		for i, op := range ops {
			vals[i] = Evaluate(op, facts, last)
		}
		return query.MeetAll(vals)

	case query.OrQuery:
		ops := t.Operands()
		vals := make([]query.QueryValue, len(ops))
		for i, op := range ops {
			vals[i] = Evaluate(op, facts, last)
		}
		return query.JoinAll(vals)

	case query.ExistsQuery:
		return evaluatePath(t.Path, t.Query, facts, last, false)

	case query.AllQuery:
		return evaluatePath(t.Path, t.Query, facts, last, true)

	default:
		panic("eval: unknown Query type")
	}
}

func boolValue(b bool) query.QueryValue {
	if b {
		return query.StableTrue
	}
	return query.StableFalse
}

// evaluatePath evaluates Exists(path, cont) when universal is false,
// or All(path, cont) when universal is true, by structural recursion
// on path. cont is the continuation query to hand to the next step.
func evaluatePath(path query.Path, cont query.Query, facts query.FactSet, last, universal bool) query.QueryValue {
	switch p := path.(type) {
	case query.AssertFactPath:
		return evaluateAssertFact(p, cont, facts, last, universal)

	case query.TestPath:
		return evaluateTest(p, cont, facts, last, universal)

	case query.ChoicePath:
		ops := p.Operands()
		vals := make([]query.QueryValue, len(ops))
		for i, op := range ops {
			vals[i] = evaluatePath(op, cont, facts, last, universal)
		}
		if universal {
			return query.MeetAll(vals)
		}
		return query.JoinAll(vals)

	case query.SequencePath:
		return evaluateSequence(p.Operands(), cont, facts, last, universal)

	case query.RepeatPath:
		return evaluateRepeat(p, cont, facts, last, universal)

	default:
		panic("eval: unknown Path type")
	}
}

// evaluateAssertFact implements §4.3 rule 4 (Exists) and its All dual:
// at the last position there is no next step to consume (Exists ->
// false, All -> true vacuously); otherwise, if the step's proposition
// holds now, the monitor commits to advancing with residual cont.
func evaluateAssertFact(p query.AssertFactPath, cont query.Query, facts query.FactSet, last, universal bool) query.QueryValue {
	if last {
		return boolValue(universal)
	}
	if query.EvalProp(p.Prop, facts) {
		return query.Unstable{Residual: cont}
	}
	return boolValue(universal)
}

// evaluateTest implements §4.3 rule 5 (Exists: meet(q1, q2)) and its
// All dual (join(not(q1), q2)).
func evaluateTest(p query.TestPath, cont query.Query, facts query.FactSet, last, universal bool) query.QueryValue {
	contVal := Evaluate(cont, facts, last)
	if universal {
		return query.Join(Evaluate(query.Not(p.Query), facts, last), contVal)
	}
	return query.Meet(Evaluate(p.Query, facts, last), contVal)
}

// evaluateSequence implements §4.3 rule 7: Exists(Sequence(p1..pn), q)
// is Exists(p1, Exists(p2, ... Exists(pn, q))), right-folded; All
// dualizes identically over nested All.
func evaluateSequence(ops []query.Path, cont query.Query, facts query.FactSet, last, universal bool) query.QueryValue {
	if len(ops) == 0 {
		return Evaluate(cont, facts, last)
	}
	tail := cont
	// Build the right-fold lazily: evaluate the first path with a
	// continuation that, were it invoked, would evaluate the rest. Since
	// QueryValue for AssertFact/Test/etc. only ever needs the *query*
	// form of the continuation (not its evaluated value) when the result
	// is Unstable, we materialize the remaining sequence as a query.
	var contQuery query.Query
	if len(ops) == 1 {
		contQuery = tail
	} else if universal {
		contQuery = query.All(query.SequenceOf(ops[1:]), tail)
	} else {
		contQuery = query.Exists(query.SequenceOf(ops[1:]), tail)
	}
	return evaluatePath(ops[0], contQuery, facts, last, universal)
}

// evaluateRepeat implements §4.3 rule 8: if the body is test-only, one
// fixed-point iteration of the continuation suffices (the loop
// consumes no trace position, so repeating it changes nothing);
// otherwise unwind one iteration and join/meet it with the zero-
// iteration case, matching the All dual (meet instead of join).
func evaluateRepeat(p query.RepeatPath, cont query.Query, facts query.FactSet, last, universal bool) query.QueryValue {
	if query.TestOnly(p.Inner) {
		return Evaluate(cont, facts, last)
	}

	zeroIterations := Evaluate(cont, facts, last)

	var oneMoreIteration query.Query
	if universal {
		oneMoreIteration = query.All(p.Inner, query.All(query.Repeat(p.Inner), cont))
	} else {
		oneMoreIteration = query.Exists(p.Inner, query.Exists(query.Repeat(p.Inner), cont))
	}
	unwound := Evaluate(oneMoreIteration, facts, last)

	if universal {
		return query.Meet(zeroIterations, unwound)
	}
	return query.Join(zeroIterations, unwound)
}
