package state

import (
	"crypto/ed25519"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"
	"github.com/stretchr/testify/require"
	"github.com/timechain-project/timechain-core/pkg/block"
	"github.com/timechain-project/timechain-core/pkg/economics"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/txn"
	"github.com/timechain-project/timechain-core/pkg/zkadmission"
)

type account struct {
	addr primitives.Address
	priv ed25519.PrivateKey
}

func newAccount(t *testing.T) account {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var addr primitives.Address
	copy(addr[:], pub)
	return account{addr: addr, priv: priv}
}

// txProof builds a transaction-authorization proof the zero-cache oracle
// in these tests will accept: the same (from, amount, fee) commitment
// VerifyTransactionProof recomputes and compares against: MiMC over
// each part reduced into the BLS12-381 scalar field.
func txProof(from primitives.Address, amount, fee uint64) []byte {
	h := mimc.NewMiMC()
	for _, p := range [][]byte{from[:], primitives.LE64(amount), primitives.LE64(fee)} {
		var e fr.Element
		b := e.SetBytes(p).Bytes()
		h.Write(b[:])
	}
	return h.Sum(nil)
}

func newState() *State {
	return New(zkadmission.NewOracle(0))
}

func TestApplyTxTransfersExactBalance(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, economics.MinFee+100)

	signed := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 0)
	require.NoError(t, s.ApplyTx(signed))
	require.Equal(t, uint64(0), s.Balance(alice.addr))
	require.Equal(t, uint64(100), s.Balance(bob.addr))
	require.Equal(t, uint64(1), s.Nonce(alice.addr))
}

func TestApplyTxRejectsDoubleSpend(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, 2*(economics.MinFee+100))

	signed := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 0)
	require.NoError(t, s.ApplyTx(signed))

	// Same fingerprint, nonce rewound: isolates the duplicate-fingerprint
	// check from the nonce check.
	s.Nonces[alice.addr] = 0
	require.ErrorIs(t, s.ApplyTx(signed), ErrDuplicateTransaction)
}

func TestApplyTxRejectsWrongNonce(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, economics.MinFee+100)

	signed := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 5)
	var nonceErr *InvalidNonce
	require.ErrorAs(t, s.ApplyTx(signed), &nonceErr)
}

func TestApplyTxRejectsInsufficientBalance(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, 10)

	signed := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 0)
	var balErr *InsufficientBalance
	require.ErrorAs(t, s.ApplyTx(signed), &balErr)
}

func TestApplyTxRejectsFeeBelowMinimum(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, 1000)

	signed := signedTxn(t, alice, bob.addr, 100, 1, 0)
	var feeErr *FeeTooLow
	require.ErrorAs(t, s.ApplyTx(signed), &feeErr)
}

func TestApplyTxRejectsZeroAmount(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, 1000)

	signed := signedTxn(t, alice, bob.addr, 0, economics.MinFee, 0)
	require.ErrorIs(t, s.ApplyTx(signed), ErrZeroAmount)
}

func TestValidateTxDoesNotMutate(t *testing.T) {
	s := newState()
	alice := newAccount(t)
	bob := newAccount(t)
	s.Credit(alice.addr, economics.MinFee+100)

	signed := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 0)
	require.NoError(t, s.ValidateTx(signed))

	require.Equal(t, uint64(economics.MinFee+100), s.Balance(alice.addr))
	require.Equal(t, uint64(0), s.Nonce(alice.addr))
}

func TestRebuildStateCreditsRewardsAndReplaysTransactions(t *testing.T) {
	s := newState()
	miner := newAccount(t)
	alice := newAccount(t)
	bob := newAccount(t)

	genesis := block.Block{Slot: 0, Miner: miner.addr}

	seed := signedTxn(t, miner, alice.addr, 100+economics.MinFee, economics.MinFee, 0)
	b1 := block.Block{Slot: 1, Miner: miner.addr, Transactions: []txn.Transaction{seed}}

	xfer := signedTxn(t, alice, bob.addr, 100, economics.MinFee, 0)
	b2 := block.Block{Slot: 2, Miner: miner.addr, Transactions: []txn.Transaction{xfer}}

	s.RebuildState([]block.Block{genesis, b1, b2})

	require.Equal(t, uint64(100), s.Balance(bob.addr))
	require.Equal(t, uint64(1), s.Nonce(alice.addr))
	require.Greater(t, s.Balance(miner.addr), uint64(0))
}

// signedTxn builds a fully-authorized transaction: a valid transaction
// proof plus an Ed25519 signature over the resulting payload.
func signedTxn(t *testing.T, from account, to primitives.Address, amount, fee, nonce uint64) txn.Transaction {
	t.Helper()
	unsigned := txn.Transaction{
		From:    from.addr,
		To:      to,
		Amount:  amount,
		Fee:     fee,
		Nonce:   nonce,
		ZKProof: txProof(from.addr, amount, fee),
	}
	signed, err := txn.Sign(unsigned, from.priv)
	require.NoError(t, err)
	return signed
}
