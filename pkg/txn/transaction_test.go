package txn

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

func signedTx(t *testing.T, amount, fee, nonce uint64) (Transaction, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var from primitives.Address
	copy(from[:], pub)

	tx := Transaction{
		From:   from,
		To:     primitives.Address{9, 9, 9},
		Amount: amount,
		Fee:    fee,
		Nonce:  nonce,
	}
	signed, err := Sign(tx, priv)
	require.NoError(t, err)
	return signed, pub
}

func TestSignatureRoundTrip(t *testing.T) {
	tx, _ := signedTx(t, 100, 10, 0)
	require.True(t, tx.VerifySignature())
}

func TestTamperedAmountInvalidatesSignature(t *testing.T) {
	tx, _ := signedTx(t, 100, 10, 0)
	tx.Amount = 200
	require.False(t, tx.VerifySignature())
}

func TestTamperedFeeInvalidatesSignature(t *testing.T) {
	tx, _ := signedTx(t, 100, 10, 0)
	tx.Fee = 20
	require.False(t, tx.VerifySignature())
}

func TestWrongSignatureLengthRejected(t *testing.T) {
	tx, _ := signedTx(t, 100, 10, 0)
	tx.Signature = []byte("too-short")
	require.False(t, tx.VerifySignature())
}

func TestFingerprintChangesWithSignature(t *testing.T) {
	tx, _ := signedTx(t, 100, 10, 0)
	fp1, err := tx.Fingerprint()
	require.NoError(t, err)

	tx2, _ := signedTx(t, 100, 10, 0)
	fp2, err := tx2.Fingerprint()
	require.NoError(t, err)

	// Two independently-signed, otherwise-identical transactions carry
	// different signatures and therefore different fingerprints.
	require.NotEqual(t, fp1, fp2)
}

func TestIsSelfTransfer(t *testing.T) {
	addr := primitives.Address{1}
	tx := Transaction{From: addr, To: addr}
	require.True(t, tx.IsSelfTransfer())

	tx.To = primitives.Address{2}
	require.False(t, tx.IsSelfTransfer())
}
