package query

import "strings"

// Query is a linear-time dynamic logic (LDLf) formula: a single-step
// Formula(p), the constants TT/FF, variadic And/Or, and the path
// modalities Exists(path, q) / All(path, q).
type Query interface {
	isQuery()
	String() string
}

// FormulaQuery holds at the current position iff its proposition does.
type FormulaQuery struct{ Prop Proposition }

func (FormulaQuery) isQuery()      {}
func (f FormulaQuery) String() string { return f.Prop.String() }

// Formula builds a FormulaQuery.
func Formula(p Proposition) Query { return FormulaQuery{Prop: p} }

// TTQuery is the always-true query.
type TTQuery struct{}

func (TTQuery) isQuery()      {}
func (TTQuery) String() string { return "tt" }

// FFQuery is the always-false query.
type FFQuery struct{}

func (FFQuery) isQuery()      {}
func (FFQuery) String() string { return "ff" }

// TT and FF are the canonical trivial queries.
var (
	TT Query = TTQuery{}
	FF Query = FFQuery{}
)

// AndQuery is a variadic conjunction of queries.
type AndQuery struct {
	First, Second Query
	Rest          []Query
}

func (AndQuery) isQuery() {}
func (a AndQuery) Operands() []Query {
	ops := make([]Query, 0, 2+len(a.Rest))
	return append(append(ops, a.First, a.Second), a.Rest...)
}
func (a AndQuery) String() string { return joinQueries(a.Operands(), " ∧ ") }

// And builds an AndQuery, flattening nested conjunctions.
func And(q1, q2 Query, rest ...Query) Query {
	ops := flattenQueries(q1, q2, rest, func(q Query) ([]Query, bool) {
		a, ok := q.(AndQuery)
		if !ok {
			return nil, false
		}
		return a.Operands(), true
	})
	return AndQuery{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

// OrQuery is a variadic disjunction of queries.
type OrQuery struct {
	First, Second Query
	Rest          []Query
}

func (OrQuery) isQuery() {}
func (o OrQuery) Operands() []Query {
	ops := make([]Query, 0, 2+len(o.Rest))
	return append(append(ops, o.First, o.Second), o.Rest...)
}
func (o OrQuery) String() string { return joinQueries(o.Operands(), " ∨ ") }

// Or builds an OrQuery, flattening nested disjunctions.
func Or(q1, q2 Query, rest ...Query) Query {
	ops := flattenQueries(q1, q2, rest, func(q Query) ([]Query, bool) {
		o, ok := q.(OrQuery)
		if !ok {
			return nil, false
		}
		return o.Operands(), true
	})
	return OrQuery{First: ops[0], Second: ops[1], Rest: ops[2:]}
}

// ExistsQuery holds iff some path-prefix matching π ends in a state
// where q holds.
type ExistsQuery struct {
	Path  Path
	Query Query
}

func (ExistsQuery) isQuery() {}
func (e ExistsQuery) String() string {
	return "<" + e.Path.String() + ">" + e.Query.String()
}

// Exists builds an ExistsQuery.
func Exists(p Path, q Query) Query { return ExistsQuery{Path: p, Query: q} }

// AllQuery holds iff every path-prefix matching π ends in a state
// where q holds.
type AllQuery struct {
	Path  Path
	Query Query
}

func (AllQuery) isQuery() {}
func (a AllQuery) String() string {
	return "[" + a.Path.String() + "]" + a.Query.String()
}

// All builds an AllQuery.
func All(p Path, q Query) Query { return AllQuery{Path: p, Query: q} }

func flattenQueries(q1, q2 Query, rest []Query, unwrap func(Query) ([]Query, bool)) []Query {
	all := make([]Query, 0, 2+len(rest))
	all = append(all, q1, q2)
	all = append(all, rest...)

	flat := make([]Query, 0, len(all))
	for _, q := range all {
		if ops, ok := unwrap(q); ok {
			flat = append(flat, ops...)
			continue
		}
		flat = append(flat, q)
	}
	return flat
}

func joinQueries(ops []Query, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
