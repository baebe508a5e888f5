package smt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// encoder translates a Query into an SMT-LIB v2 boolean expression
// over nullary uninterpreted predicates keyed by (fact name, args),
// per §4.2's implementation guidance. Exists/All over a Path are
// unrolled up to unrollDepth; beyond the bound a fresh, otherwise
// unconstrained boolean stands in for the unexplored continuation —
// the encoder's "unknown" (§4.2: "the backend may return unknown,
// callers treat that as not valid and satisfiable").
type encoder struct {
	unrollDepth int
	predicates  map[string]string // GroundFact.Key() -> declared SMT identifier
	order       []string          // declaration order, for deterministic output
	nextUnknown int
}

func newEncoder(unrollDepth int) *encoder {
	return &encoder{
		unrollDepth: unrollDepth,
		predicates:  make(map[string]string),
	}
}

// Declarations returns the "declare-const <id> Bool" lines for every
// predicate referenced while encoding, in first-use order.
func (e *encoder) Declarations() []string {
	decls := make([]string, len(e.order))
	for i, id := range e.order {
		decls[i] = fmt.Sprintf("(declare-const %s Bool)", id)
	}
	return decls
}

func (e *encoder) identFor(f query.GroundFact) string {
	key := f.Key()
	if id, ok := e.predicates[key]; ok {
		return id
	}
	id := fmt.Sprintf("p%d", len(e.predicates))
	e.predicates[key] = id
	e.order = append(e.order, id)
	return id
}

func (e *encoder) unknown() string {
	id := fmt.Sprintf("unk%d", e.nextUnknown)
	e.nextUnknown++
	e.order = append(e.order, id)
	return id
}

// EncodeFormula renders q as a single SMT-LIB boolean expression,
// along with the declarations its free predicates need.
func EncodeFormula(q query.Query, unrollDepth int) (formula string, declarations []string) {
	e := newEncoder(unrollDepth)
	formula = e.query(q, unrollDepth)
	return formula, e.Declarations()
}

func (e *encoder) prop(p query.Proposition) string {
	switch t := p.(type) {
	case query.TrueProp:
		return "true"
	case query.FalseProp:
		return "false"
	case query.AssertProp:
		id := e.identFor(t.Fact.Ground())
		if t.Fact.Negated() {
			return fmt.Sprintf("(not %s)", id)
		}
		return id
	case query.Conjunction:
		return e.nary("and", propsToExprs(e, t.Operands()))
	case query.Disjunction:
		return e.nary("or", propsToExprs(e, t.Operands()))
	default:
		panic("smt: unknown Proposition type")
	}
}

func propsToExprs(e *encoder, ops []query.Proposition) []string {
	exprs := make([]string, len(ops))
	for i, op := range ops {
		exprs[i] = e.prop(op)
	}
	return exprs
}

func (e *encoder) query(q query.Query, depth int) string {
	switch t := q.(type) {
	case query.FormulaQuery:
		return e.prop(t.Prop)
	case query.TTQuery:
		return "true"
	case query.FFQuery:
		return "false"
	case query.AndQuery:
		return e.nary("and", queriesToExprs(e, t.Operands(), depth))
	case query.OrQuery:
		return e.nary("or", queriesToExprs(e, t.Operands(), depth))
	case query.ExistsQuery:
		if depth <= 0 {
			return e.unknown()
		}
		return e.path(t.Path, t.Query, depth-1, false)
	case query.AllQuery:
		if depth <= 0 {
			return e.unknown()
		}
		return e.path(t.Path, t.Query, depth-1, true)
	default:
		panic("smt: unknown Query type")
	}
}

func queriesToExprs(e *encoder, ops []query.Query, depth int) []string {
	exprs := make([]string, len(ops))
	for i, op := range ops {
		exprs[i] = e.query(op, depth)
	}
	return exprs
}

// path encodes Exists(p, cont) when universal is false, All(p, cont)
// when true, bounding unrolling of Sequence/Repeat to depth.
func (e *encoder) path(p query.Path, cont query.Query, depth int, universal bool) string {
	switch t := p.(type) {
	case query.AssertFactPath:
		stepHolds := e.prop(t.Prop)
		contExpr := e.query(cont, depth)
		if universal {
			return fmt.Sprintf("(=> %s %s)", stepHolds, contExpr)
		}
		return fmt.Sprintf("(and %s %s)", stepHolds, contExpr)

	case query.TestPath:
		q1 := e.query(t.Query, depth)
		q2 := e.query(cont, depth)
		if universal {
			return fmt.Sprintf("(or (not %s) %s)", q1, q2)
		}
		return fmt.Sprintf("(and %s %s)", q1, q2)

	case query.ChoicePath:
		ops := t.Operands()
		exprs := make([]string, len(ops))
		for i, op := range ops {
			exprs[i] = e.path(op, cont, depth, universal)
		}
		conn := "or"
		if universal {
			conn = "and"
		}
		return e.nary(conn, exprs)

	case query.SequencePath:
		return e.sequence(t.Operands(), cont, depth, universal)

	case query.RepeatPath:
		return e.repeat(t, cont, depth, universal)

	default:
		panic("smt: unknown Path type")
	}
}

func (e *encoder) sequence(ops []query.Path, cont query.Query, depth int, universal bool) string {
	if len(ops) == 0 {
		return e.query(cont, depth)
	}
	var tail query.Query
	if len(ops) == 1 {
		tail = cont
	} else if universal {
		tail = query.All(query.SequenceOf(ops[1:]), cont)
	} else {
		tail = query.Exists(query.SequenceOf(ops[1:]), cont)
	}
	return e.path(ops[0], tail, depth, universal)
}

func (e *encoder) repeat(p query.RepeatPath, cont query.Query, depth int, universal bool) string {
	if query.TestOnly(p.Inner) {
		return e.query(cont, depth)
	}
	if depth <= 0 {
		return e.unknown()
	}

	var rest query.Query
	if universal {
		rest = query.All(p.Inner, query.All(query.Repeat(p.Inner), cont))
	} else {
		rest = query.Exists(p.Inner, query.Exists(query.Repeat(p.Inner), cont))
	}

	zero := e.query(cont, depth)
	one := e.query(rest, depth-1)
	conn := "or"
	if universal {
		conn = "and"
	}
	return e.nary(conn, []string{zero, one})
}

func (e *encoder) nary(conn string, exprs []string) string {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return fmt.Sprintf("(%s %s)", conn, strings.Join(exprs, " "))
}

// CacheKey returns a structural key for q, stable across calls with an
// equal query. Caching is sound but not complete under reordering:
// §3 notes variadic connectives are associative but not commutative in
// toString, so two semantically-equal queries that differ only in
// operand order produce different keys and simply miss the cache —
// never an incorrect hit.
func CacheKey(q query.Query) string {
	return q.String()
}

// SortedFactKeys is a small helper used by tests/diagnostics to render
// a FactSet's contents deterministically.
func SortedFactKeys(facts []query.GroundFact) []string {
	keys := make([]string, len(facts))
	for i, f := range facts {
		keys[i] = f.Key()
	}
	sort.Strings(keys)
	return keys
}
