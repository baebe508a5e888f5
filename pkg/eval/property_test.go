package eval

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// genSmallQuery draws a bounded-depth query over a two-fact alphabet,
// small enough that Evaluate's recursion (bounded by query size, not
// trace length) always terminates within the test's deadline.
func genSmallQuery(t *rapid.T, depth int) query.Query {
	if depth <= 0 {
		return rapid.SampledFrom([]query.Query{query.TT, query.FF}).Draw(t, "leaf")
	}
	switch rapid.IntRange(0, 5).Draw(t, "kind") {
	case 0:
		name := rapid.SampledFrom([]string{"a", "b"}).Draw(t, "fact")
		return query.Formula(query.Assert(query.PosFact{Fact: query.NewGroundFact(name)}))
	case 1:
		return query.And(genSmallQuery(t, depth-1), genSmallQuery(t, depth-1))
	case 2:
		return query.Or(genSmallQuery(t, depth-1), genSmallQuery(t, depth-1))
	case 3:
		return query.Exists(query.AssertFact(query.PropTrue), genSmallQuery(t, depth-1))
	case 4:
		return query.All(query.AssertFact(query.PropTrue), genSmallQuery(t, depth-1))
	default:
		// An AssertFact that can genuinely fail to hold (unlike the
		// vacuously-true PropTrue paths above), exercising the
		// not-last/proposition-false branch of evaluateAssertFact.
		name := rapid.SampledFrom([]string{"a", "b"}).Draw(t, "fact")
		prop := query.Assert(query.PosFact{Fact: query.NewGroundFact(name)})
		if rapid.Bool().Draw(t, "universal") {
			return query.All(query.AssertFact(prop), genSmallQuery(t, depth-1))
		}
		return query.Exists(query.AssertFact(prop), genSmallQuery(t, depth-1))
	}
}

// TestProperty_EvaluateTotal checks that Evaluate never panics and
// always returns a well-formed QueryValue over generated queries and
// fact sets, at both last=true and last=false.
func TestProperty_EvaluateTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := genSmallQuery(t, 3)
		withA := rapid.Bool().Draw(t, "withA")
		last := rapid.Bool().Draw(t, "last")

		facts := query.NewFactSet()
		if withA {
			facts = query.NewFactSet(query.NewGroundFact("a"))
		}

		got := Evaluate(q, facts, last)
		switch got.(type) {
		case query.Stable, query.Unstable:
			// well-formed
		default:
			t.Fatalf("Evaluate returned unexpected type %T", got)
		}
	})
}

// TestProperty_EvaluateDeterministic checks that Evaluate is a pure
// function: the same (q, facts, last) always yields the same verdict.
func TestProperty_EvaluateDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := genSmallQuery(t, 3)
		facts := query.NewFactSet(query.NewGroundFact("a"))
		last := rapid.Bool().Draw(t, "last")

		first := Evaluate(q, facts, last)
		second := Evaluate(q, facts, last)
		if first.String() != second.String() {
			t.Fatalf("Evaluate not deterministic: %v != %v", first, second)
		}
	})
}
