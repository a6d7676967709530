package primitives

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumSHA256Deterministic(t *testing.T) {
	a := SumSHA256([]byte("foo"), []byte("bar"))
	b := SumSHA256([]byte("foo"), []byte("bar"))
	require.Equal(t, a, b)

	c := SumSHA256([]byte("foobar"))
	require.NotEqual(t, a, c, "part boundaries must not be erasable by concatenation")
}

func TestSatAdd64ClampsAtMax(t *testing.T) {
	require.Equal(t, ^uint64(0), SatAdd64(^uint64(0), 1))
	require.Equal(t, uint64(3), SatAdd64(1, 2))
}

func TestSatSub64ClampsAtZero(t *testing.T) {
	require.Equal(t, uint64(0), SatSub64(1, 2))
	require.Equal(t, uint64(1), SatSub64(3, 2))
}

func TestZeroAddressIsZero(t *testing.T) {
	require.True(t, ZeroAddress.IsZero())
	addr := Address{1}
	require.False(t, addr.IsZero())
}
