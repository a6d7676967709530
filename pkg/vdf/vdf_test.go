package vdf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

func testParams(t *testing.T) *Params {
	t.Helper()
	// Small modulus: fine for a unit test, rejected in production by
	// the 2048-bit floor checked separately below.
	p, err := Setup(256, false)
	require.NoError(t, err)
	return p
}

func TestSetupRejectsSmallProductionModulus(t *testing.T) {
	_, err := Setup(512, true)
	require.ErrorIs(t, err, ErrModulusTooSmall)
}

func TestProveVerifyFastRoundTrip(t *testing.T) {
	p := testParams(t)
	proof, err := Prove(p.G, 20, p.N)
	require.NoError(t, err)
	require.True(t, VerifyFast(p.G, 20, p.N, proof.Y, proof.Pi))
}

func TestVerifyFastRejectsTamperedProof(t *testing.T) {
	p := testParams(t)
	proof, err := Prove(p.G, 20, p.N)
	require.NoError(t, err)

	tampered := new(big.Int).Add(proof.Pi, big.NewInt(1))
	require.False(t, VerifyFast(p.G, 20, p.N, proof.Y, tampered))
}

func TestVerifyFastRejectsTamperedY(t *testing.T) {
	p := testParams(t)
	proof, err := Prove(p.G, 20, p.N)
	require.NoError(t, err)

	tamperedY := new(big.Int).Add(proof.Y, big.NewInt(1))
	require.False(t, VerifyFast(p.G, 20, p.N, tamperedY, proof.Pi))
}

func TestVerifySlowMatchesEvaluate(t *testing.T) {
	p := testParams(t)
	y := Evaluate(p.G, 15, p.N)
	require.True(t, VerifySlow(p.G, 15, p.N, y))
	require.False(t, VerifySlow(p.G, 15, p.N, new(big.Int).Add(y, big.NewInt(1))))
}

func TestEvaluateDeterministic(t *testing.T) {
	p := testParams(t)
	a := Evaluate(p.G, 30, p.N)
	b := Evaluate(p.G, 30, p.N)
	require.Equal(t, 0, a.Cmp(b))
}

func TestDeriveSeedBindsParentAndSlot(t *testing.T) {
	parent := primitives.SumSHA256([]byte("parent"))
	s1 := DeriveSeed(parent, 1)
	s2 := DeriveSeed(parent, 2)
	require.NotEqual(t, s1, s2)

	otherParent := primitives.SumSHA256([]byte("other"))
	s3 := DeriveSeed(otherParent, 1)
	require.NotEqual(t, s1, s3)
}
