// Package timechain implements the block-acceptance state machine: the
// single consensus gate combining the VDF time-lock, proof-of-work,
// and ZK admission checks described in spec section 4.6.
package timechain

import (
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/timechain-project/timechain-core/pkg/block"
	"github.com/timechain-project/timechain-core/pkg/chainstore"
	"github.com/timechain-project/timechain-core/pkg/economics"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/state"
	"github.com/timechain-project/timechain-core/pkg/txn"
	"github.com/timechain-project/timechain-core/pkg/zkadmission"
)

// InitialDifficulty is the starting PoW difficulty for any new or
// restored chain. Difficulty is never persisted; a restored chain
// always resumes from this value, matching the reference chain's
// behavior of not deriving it from historical accept timings, which
// are not part of the persisted block log.
const InitialDifficulty = 1000

// Timechain owns the ordered block log, the PoW difficulty, the
// duplicate/injection guard, and the derived State engine. Per spec
// section 5 it is guarded by one mutex: exclusive for AddBlock and
// RebuildState, shared for read-only queries.
type Timechain struct {
	mu sync.RWMutex

	blocks     []block.Block
	difficulty uint64
	seenHashes mapset.Set[primitives.Hash32]
	state      *state.State
	oracle     *zkadmission.Oracle
	anchor     primitives.Hash32

	lastAcceptTime time.Time
	hasAccepted    bool

	store *chainstore.Store
}

// New constructs a Timechain from a single genesis block, enforcing
// the one fatal invariant this component has: the genesis hash must
// equal the supplied anchor (I3).
func New(genesis block.Block, anchor primitives.Hash32, oracle *zkadmission.Oracle) (*Timechain, error) {
	h, err := genesis.Hash()
	if err != nil {
		return nil, fmt.Errorf("timechain: hashing genesis: %w", err)
	}
	if h != anchor {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrGenesisAnchorMismatch, h.Hex(), anchor.Hex())
	}
	if genesis.Slot != 0 {
		return nil, wrapHeight(0, genesis.Slot)
	}
	tc := &Timechain{
		blocks:     []block.Block{genesis},
		difficulty: InitialDifficulty,
		seenHashes: mapset.NewThreadUnsafeSet[primitives.Hash32](),
		state:      state.New(oracle),
		oracle:     oracle,
		anchor:     anchor,
	}
	tc.seenHashes.Add(h)
	tc.state.RebuildState(tc.blocks)
	return tc, nil
}

// Load restores a Timechain from a previously persisted block log. It
// re-checks I1-I3 across the whole log (cheap relative to the crypto
// checks AddBlock performs) but does not re-run the time-lock, PoW, or
// ZK checks on historical blocks: those were already enforced once, at
// the moment each block was originally accepted.
func Load(blocks []block.Block, anchor primitives.Hash32, oracle *zkadmission.Oracle) (*Timechain, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("timechain: cannot load an empty chain")
	}
	tc, err := New(blocks[0], anchor, oracle)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		if b.Slot != uint64(i) {
			return nil, wrapHeight(uint64(i), b.Slot)
		}
		parentHash, err := tc.blocks[i-1].Hash()
		if err != nil {
			return nil, err
		}
		if b.Parent != parentHash {
			return nil, fmt.Errorf("%w: at index %d", ErrInvalidParent, i)
		}
		h, err := b.Hash()
		if err != nil {
			return nil, err
		}
		tc.blocks = append(tc.blocks, b)
		tc.seenHashes.Add(h)
	}
	tc.state.RebuildState(tc.blocks)
	log.Info("timechain: restored chain", "blocks", len(tc.blocks))
	return tc, nil
}

// AttachStore wires an atomic chain store for Save/Load to delegate to.
func (tc *Timechain) AttachStore(store *chainstore.Store) {
	tc.store = store
}

func (tc *Timechain) tipLocked() block.Block {
	return tc.blocks[len(tc.blocks)-1]
}

// AddBlock is the one consensus entry point. It runs the nine checks
// from spec 4.6 in order and, only on success, appends B and rebuilds
// state. elapsed is the wall-clock interval since the previous accept,
// measured by the caller with a monotonic clock per the spec's
// time-lock open-question resolution.
func (tc *Timechain) AddBlock(b block.Block, elapsed time.Duration) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	hash, err := b.Hash()
	if err != nil {
		return fmt.Errorf("timechain: hashing candidate block: %w", err)
	}

	if tc.seenHashes.Contains(hash) {
		return ErrDuplicateBlock
	}

	if len(tc.blocks) > 1 && elapsed < economics.TargetTime {
		return ErrTimeLockViolation
	}

	meets, err := b.MeetsDifficulty(tc.difficulty)
	if err != nil {
		return fmt.Errorf("timechain: evaluating difficulty: %w", err)
	}
	if !meets {
		return ErrPoWViolation
	}

	if tc.oracle == nil || !tc.oracle.VerifyAdmissionProof(b.Miner, b.Parent, b.ZKProof) {
		return ErrSybilViolation
	}

	// Retarget before deciding tip attachment, so the accepted block's
	// own timing is reflected immediately (spec 4.6 step 6).
	if elapsed < economics.TargetTime {
		tc.difficulty = primitives.SatAdd64(tc.difficulty, tc.difficulty/2)
	} else {
		tc.difficulty = primitives.SatSub64(tc.difficulty, tc.difficulty/10)
	}

	expectedSlot := uint64(len(tc.blocks))
	if b.Slot != expectedSlot {
		return wrapHeight(expectedSlot, b.Slot)
	}
	tipHash, err := tc.tipLocked().Hash()
	if err != nil {
		return fmt.Errorf("timechain: hashing tip: %w", err)
	}
	if b.Parent != tipHash {
		return ErrChainSplit
	}

	tc.blocks = append(tc.blocks, b)
	tc.state.RebuildState(tc.blocks)

	tc.seenHashes.Add(hash)
	tc.lastAcceptTime = time.Now()
	tc.hasAccepted = true

	log.Info("timechain: block accepted", "slot", b.Slot, "hash", hash.Hex(), "difficulty", tc.difficulty, "miner", b.Miner.Hex())
	return nil
}

// ValidateTransaction is the read-only pre-admission filter mempool
// code calls before including a transaction in a candidate block.
func (tc *Timechain) ValidateTransaction(tx txn.Transaction) error {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.state.ValidateTx(tx)
}

// Balance returns addr's balance at the current tip.
func (tc *Timechain) Balance(addr primitives.Address) uint64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.state.Balance(addr)
}

// Nonce returns addr's next expected nonce at the current tip.
func (tc *Timechain) Nonce(addr primitives.Address) uint64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.state.Nonce(addr)
}

// issuedLocked sums the reward every block in the log has paid so far.
// Callers must hold at least the read lock.
func (tc *Timechain) issuedLocked() uint64 {
	var issued uint64
	for _, b := range tc.blocks {
		issued = primitives.SatAdd64(issued, b.Reward(issued))
	}
	return issued
}

// SupplyInfo reports issuance against the cap.
func (tc *Timechain) SupplyInfo() (mined, remaining uint64, percent float64) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return economics.SupplyInfo(tc.issuedLocked())
}

// TipHash returns the hash of the current chain tip.
func (tc *Timechain) TipHash() (primitives.Hash32, error) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.tipLocked().Hash()
}

// Height returns the current chain length.
func (tc *Timechain) Height() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.blocks)
}

// Difficulty returns the current PoW difficulty.
func (tc *Timechain) Difficulty() uint64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.difficulty
}

// Blocks returns a defensive copy of the accepted block log, mainly
// for persistence and tests.
func (tc *Timechain) Blocks() []block.Block {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	out := make([]block.Block, len(tc.blocks))
	copy(out, tc.blocks)
	return out
}

// Save persists the current block log through the attached chain
// store. The spec calls for this to happen after AddBlock's lock is
// released (5: suspension point b), so the caller invokes Save as a
// separate step, not from inside AddBlock.
func (tc *Timechain) Save() error {
	if tc.store == nil {
		return fmt.Errorf("timechain: no chain store attached")
	}
	return tc.store.Save(tc.Blocks())
}

// GetStatus summarizes the chain for operator tooling (CLI, logs), in
// the same shape the teacher's consensus and orchestrator types expose.
func (tc *Timechain) GetStatus() map[string]interface{} {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	mined, remaining, percent := economics.SupplyInfo(tc.issuedLocked())
	tip := tc.tipLocked()
	tipHash, _ := tip.Hash()
	return map[string]interface{}{
		"height":          len(tc.blocks),
		"difficulty":      tc.difficulty,
		"tipHash":         tipHash.Hex(),
		"suppliedMined":   mined,
		"supplyRemaining": remaining,
		"supplyPercent":   percent,
	}
}
