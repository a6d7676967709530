package zkadmission

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

func TestVerifyAdmissionProofRoundTrip(t *testing.T) {
	o := NewOracle(0)
	secret := []byte("miner-secret")
	parent := primitives.SumSHA256([]byte("parent"))
	miner := DeriveMinerAddress(secret)
	proof := GenerateAdmissionProof(secret, parent)

	require.True(t, o.VerifyAdmissionProof(miner, parent, proof))
}

func TestVerifyAdmissionProofRejectsZeroAddress(t *testing.T) {
	o := NewOracle(0)
	parent := primitives.SumSHA256([]byte("parent"))
	proof := GenerateAdmissionProof([]byte("secret"), parent)
	require.False(t, o.VerifyAdmissionProof(primitives.ZeroAddress, parent, proof))
}

func TestVerifyAdmissionProofRejectsLengthMismatch(t *testing.T) {
	o := NewOracle(0)
	parent := primitives.SumSHA256([]byte("parent"))
	miner := DeriveMinerAddress([]byte("secret"))
	require.False(t, o.VerifyAdmissionProof(miner, parent, []byte("short")))
}

func TestVerifyAdmissionProofRejectsWrongParent(t *testing.T) {
	o := NewOracle(0)
	secret := []byte("miner-secret")
	parent := primitives.SumSHA256([]byte("parent"))
	otherParent := primitives.SumSHA256([]byte("other"))
	miner := DeriveMinerAddress(secret)
	proof := GenerateAdmissionProof(secret, parent)

	require.False(t, o.VerifyAdmissionProof(miner, otherParent, proof))
}

func TestVerifyAdmissionProofCaching(t *testing.T) {
	o := NewOracle(1 << 20)
	secret := []byte("miner-secret")
	parent := primitives.SumSHA256([]byte("parent"))
	miner := DeriveMinerAddress(secret)
	proof := GenerateAdmissionProof(secret, parent)

	require.True(t, o.VerifyAdmissionProof(miner, parent, proof))
	// Second call must hit the cache and return the same result.
	require.True(t, o.VerifyAdmissionProof(miner, parent, proof))
}

func TestVerifyTransactionProofRoundTrip(t *testing.T) {
	o := NewOracle(0)
	from := primitives.Address{7, 7, 7}
	proof := commit(from[:], primitives.LE64(100), primitives.LE64(10))

	require.True(t, o.VerifyTransactionProof(proof, from, 100, 10))
	require.False(t, o.VerifyTransactionProof(proof, from, 101, 10))
}

func TestVerifyTransactionProofRejectsZeroFrom(t *testing.T) {
	o := NewOracle(0)
	proof := commit(primitives.ZeroAddress[:], primitives.LE64(1), primitives.LE64(1))
	require.False(t, o.VerifyTransactionProof(proof, primitives.ZeroAddress, 1, 1))
}
