package smt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exertio/ldlmonitor/pkg/query"
)

func gesture(name string) query.GroundFact {
	return query.NewGroundFact(name)
}

func TestEncodeFormula_Literal(t *testing.T) {
	f := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	formula, decls := EncodeFormula(f, 4)
	require.Len(t, decls, 1)
	assert.Equal(t, "(declare-const p0 Bool)", decls[0])
	assert.Equal(t, "p0", formula)
}

func TestEncodeFormula_NegatedLiteral(t *testing.T) {
	f := query.Formula(query.Assert(query.NegFact{Fact: gesture("impact")}))
	formula, _ := EncodeFormula(f, 4)
	assert.Equal(t, "(not p0)", formula)
}

func TestEncodeFormula_SharesIdentifierAcrossOccurrences(t *testing.T) {
	lit := query.Assert(query.PosFact{Fact: gesture("impact")})
	f := query.And(query.Formula(lit), query.Formula(lit))
	formula, decls := EncodeFormula(f, 4)
	require.Len(t, decls, 1, "the same ground fact must reuse one identifier")
	assert.Equal(t, "(and p0 p0)", formula)
}

func TestEncodeFormula_ExistsAssertFact(t *testing.T) {
	q := query.Exists(query.AssertFact(query.PropTrue), query.TT)
	formula, _ := EncodeFormula(q, 4)
	assert.Equal(t, "(and true true)", formula)
}

func TestEncodeFormula_AllAssertFactIsImplication(t *testing.T) {
	q := query.All(query.AssertFact(query.PropTrue), query.FF)
	formula, _ := EncodeFormula(q, 4)
	assert.Equal(t, "(=> true false)", formula)
}

func TestEncodeFormula_DepthExhaustedProducesFreshUnknown(t *testing.T) {
	q := query.Exists(query.AssertFact(query.PropTrue), query.TT)
	formula, decls := EncodeFormula(q, 0)
	assert.True(t, strings.HasPrefix(formula, "unk"))
	require.Len(t, decls, 1)
	assert.Contains(t, decls[0], formula)
}

func TestEncodeFormula_RepeatTestOnlyCollapsesToContinuation(t *testing.T) {
	loop := query.Repeat(query.Test(query.TT))
	q := query.Exists(loop, query.FF)
	formula, _ := EncodeFormula(q, 4)
	assert.Equal(t, "false", formula)
}

func TestEncodeFormula_SequenceUsesSharedHelper(t *testing.T) {
	step := query.AssertFact(query.PropTrue)
	q := query.Exists(query.Sequence(step, step), query.TT)
	formula, _ := EncodeFormula(q, 4)
	// (and true (and true true))
	assert.Equal(t, "(and true (and true true))", formula)
}

func TestCacheKey_StableForEqualQueries(t *testing.T) {
	a := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	b := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	assert.Equal(t, CacheKey(a), CacheKey(b))
}
