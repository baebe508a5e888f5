package query

// This file collects the derived abbreviations of §4.1, defined in
// terms of the primitive Query/Path constructors above.

// AnyStep matches any single trace step.
var AnyStep Path = AssertFact(PropTrue)

// End holds when the trace has ended: no test-only path-prefix can
// reach a further state, so the continuation FF is vacuously forced.
func End() Query {
	return All(Test(Formula(PropTrue)), FF)
}

// Last holds iff the current position is the last one in the trace:
// any single step taken from here lands at the end.
func Last() Query {
	return All(AssertFact(PropTrue), End())
}

// Next holds iff there is a next step and q holds there.
func Next(q Query) Query {
	return Exists(AssertFact(PropTrue), q)
}

// Diamond holds iff some future position (possibly the current one,
// after zero or more steps) satisfies q.
func Diamond(q Query) Query {
	return Exists(Repeat(AnyStep), q)
}

// Box holds iff every future position (including the current one)
// satisfies q.
func Box(q Query) Query {
	return All(Repeat(AnyStep), q)
}

// Until holds iff q1 holds at every position up to, but not including,
// some future position where q2 holds.
func Until(q1, q2 Query) Query {
	return Exists(Repeat(Sequence(Test(q1), AnyStep)), q2)
}
