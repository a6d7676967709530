// Package state implements deterministic replay of the block log into
// an account-balance projection: balances, nonces, and the spent
// transaction set, per spec section 4.3.
package state

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/bloomfilter/v2"
	"github.com/timechain-project/timechain-core/pkg/block"
	"github.com/timechain-project/timechain-core/pkg/economics"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/txn"
	"github.com/timechain-project/timechain-core/pkg/zkadmission"
)

// State is the projection derived from replaying the block log. It is
// never mutated by anything other than RebuildState; the spec's
// concurrency model (5) has the Timechain hold a single lock around
// every call into this type, so State itself does no locking.
type State struct {
	oracle *zkadmission.Oracle

	Balances map[primitives.Address]uint64
	Nonces   map[primitives.Address]uint64

	spent      mapset.Set[primitives.Hash32]
	spentBloom *bloomfilter.Filter
}

// New builds an empty State backed by the given admission oracle, used
// to check apply_tx's transaction-authorization precondition.
func New(oracle *zkadmission.Oracle) *State {
	s := &State{oracle: oracle}
	s.reset()
	return s
}

func (s *State) reset() {
	s.Balances = make(map[primitives.Address]uint64)
	s.Nonces = make(map[primitives.Address]uint64)
	s.spent = mapset.NewThreadUnsafeSet[primitives.Hash32]()
	// Sized for a few million outstanding fingerprints at a 1-in-10^4
	// false-positive rate; a false positive only costs an extra exact
	// lookup, never an incorrect accept.
	filter, err := bloomfilter.NewOptimal(4_000_000, 1e-4)
	if err != nil {
		// Only possible with a degenerate (zero) configuration above.
		panic(err)
	}
	s.spentBloom = filter
}

// Balance returns addr's current balance, defaulting to zero.
func (s *State) Balance(addr primitives.Address) uint64 {
	return s.Balances[addr]
}

// Nonce returns addr's next expected nonce, defaulting to zero.
func (s *State) Nonce(addr primitives.Address) uint64 {
	return s.Nonces[addr]
}

// Credit adds amount to addr's balance with saturation (I4).
func (s *State) Credit(addr primitives.Address, amount uint64) {
	s.Balances[addr] = primitives.SatAdd64(s.Balances[addr], amount)
}

// Debit subtracts amount from addr's balance, failing if the balance
// cannot cover it.
func (s *State) Debit(addr primitives.Address, amount uint64) error {
	bal := s.Balances[addr]
	if bal < amount {
		return &InsufficientBalance{Available: bal, Required: amount}
	}
	s.Balances[addr] = bal - amount
	return nil
}

func (s *State) isSpent(fp primitives.Hash32) bool {
	if !s.spentBloom.Contains(newFixedHash64(fp)) {
		return false
	}
	return s.spent.Contains(fp)
}

func (s *State) markSpent(fp primitives.Hash32) {
	s.spentBloom.Add(newFixedHash64(fp))
	s.spent.Add(fp)
}

// checkTx evaluates every apply_tx precondition from spec 4.3, in
// order, without mutating anything. It returns the transaction's
// fingerprint on success so ApplyTx does not recompute it.
func (s *State) checkTx(tx txn.Transaction) (primitives.Hash32, error) {
	if tx.Nonce != s.Nonces[tx.From] {
		return primitives.Hash32{}, &InvalidNonce{Expected: s.Nonces[tx.From], Actual: tx.Nonce}
	}
	total := primitives.SatAdd64(tx.Amount, tx.Fee)
	if s.Balances[tx.From] < total {
		return primitives.Hash32{}, &InsufficientBalance{Available: s.Balances[tx.From], Required: total}
	}
	if tx.Fee < economics.MinFee {
		return primitives.Hash32{}, &FeeTooLow{Min: economics.MinFee, Actual: tx.Fee}
	}
	if tx.Amount == 0 {
		return primitives.Hash32{}, ErrZeroAmount
	}
	fp, err := tx.Fingerprint()
	if err != nil {
		return primitives.Hash32{}, err
	}
	if s.isSpent(fp) {
		return primitives.Hash32{}, ErrDuplicateTransaction
	}
	if s.oracle != nil && !s.oracle.VerifyTransactionProof(tx.ZKProof, tx.From, tx.Amount, tx.Fee) {
		return primitives.Hash32{}, ErrProofVerificationFailed
	}
	if !tx.VerifySignature() {
		return primitives.Hash32{}, ErrInvalidSignature
	}
	return fp, nil
}

// ValidateTx is the read-only pre-admission filter: it reports whether
// tx would be accepted by ApplyTx against the current state, without
// mutating anything. This is what validate_transaction exposes to
// mempool code (spec 4.6).
func (s *State) ValidateTx(tx txn.Transaction) error {
	_, err := s.checkTx(tx)
	return err
}

// ApplyTx checks every apply_tx precondition from spec 4.3 in order and,
// only if all of them hold, mutates balances/nonces/the spent set. On
// any failure the state is left exactly as it was.
func (s *State) ApplyTx(tx txn.Transaction) error {
	fp, err := s.checkTx(tx)
	if err != nil {
		return err
	}
	total := primitives.SatAdd64(tx.Amount, tx.Fee)
	if err := s.Debit(tx.From, total); err != nil {
		return err
	}
	s.Credit(tx.To, tx.Amount)
	s.Nonces[tx.From]++
	s.markSpent(fp)
	return nil
}

// RebuildState clears every derived structure and replays blocks from
// index 0: each block's miner is credited its reward, then every
// transaction in the block is applied in order. This is the reference
// model for correctness (spec 9); it is pure in blocks, so two nodes
// presented with the same log converge on identical maps (P4).
func (s *State) RebuildState(blocks []block.Block) {
	s.reset()
	var issued uint64
	for _, b := range blocks {
		reward := economics.Reward(b.Slot, issued)
		s.Credit(b.Miner, reward)
		issued = primitives.SatAdd64(issued, reward)
		for _, tx := range b.Transactions {
			if fp, err := tx.Fingerprint(); err == nil && s.isSpent(fp) {
				log.Warn("state: skipping already-spent fingerprint during replay", "fingerprint", fp.Hex())
				continue
			}
			if err := s.ApplyTx(tx); err != nil {
				log.Warn("state: skipping transaction that failed replay", "err", err)
			}
		}
	}
}
