package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeetJoin_StableStable(t *testing.T) {
	require.Equal(t, StableTrue, Meet(StableTrue, StableTrue))
	require.Equal(t, StableFalse, Meet(StableTrue, StableFalse))
	require.Equal(t, StableTrue, Join(StableTrue, StableFalse))
	require.Equal(t, StableFalse, Join(StableFalse, StableFalse))
}

func TestMeetJoin_StableUnstable(t *testing.T) {
	u := Unstable{Residual: Formula(PropTrue)}

	require.Equal(t, u, Meet(StableTrue, u))
	require.Equal(t, StableFalse, Meet(StableFalse, u))
	require.Equal(t, StableTrue, Join(StableTrue, u))
	require.Equal(t, u, Join(StableFalse, u))

	// symmetric
	require.Equal(t, u, Meet(u, StableTrue))
	require.Equal(t, StableFalse, Meet(u, StableFalse))
}

func TestMeetJoin_UnstableUnstable(t *testing.T) {
	x := Unstable{Residual: Formula(PropTrue)}
	y := Unstable{Residual: Formula(PropFalse)}

	m := Meet(x, y).(Unstable)
	require.Equal(t, And(x.Residual, y.Residual).String(), m.Residual.String())

	j := Join(x, y).(Unstable)
	require.Equal(t, Or(x.Residual, y.Residual).String(), j.Residual.String())
}

func TestComplement(t *testing.T) {
	require.Equal(t, StableFalse, Complement(StableTrue))
	u := Unstable{Residual: Formula(PropTrue)}
	got := Complement(u).(Unstable)
	require.Equal(t, Not(u.Residual).String(), got.Residual.String())
}

func TestComplement_Involution(t *testing.T) {
	vals := []QueryValue{StableTrue, StableFalse, Unstable{Residual: Diamond(TT)}}
	for _, v := range vals {
		require.Equal(t, v, Complement(Complement(v)))
	}
}

func TestLatticeLaws_Commutative(t *testing.T) {
	a := StableTrue
	b := Unstable{Residual: Formula(PropTrue)}
	require.Equal(t, Meet(a, b), Meet(b, a))
	require.Equal(t, Join(a, b), Join(b, a))
}

func TestLatticeLaws_Idempotent(t *testing.T) {
	for _, v := range []QueryValue{StableTrue, StableFalse} {
		require.Equal(t, v, Meet(v, v))
		require.Equal(t, v, Join(v, v))
	}
}
