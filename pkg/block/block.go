// Package block defines the block data model: field layout, canonical
// hash, the difficulty predicate, and the miner reward lookup.
package block

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/timechain-project/timechain-core/pkg/economics"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/txn"
)

// Block is one entry in the timechain. Nonce is inside the hashed
// payload deliberately: it is what the proof-of-work search iterates
// over.
type Block struct {
	Parent       primitives.Hash32
	Slot         uint64
	Miner        primitives.Address
	Transactions []txn.Transaction
	VDFProof     []byte
	ZKProof      []byte
	Nonce        uint64
}

// CanonicalEncode is the fixed byte layout over every field, used for
// both hashing and persistence.
func (b Block) CanonicalEncode() ([]byte, error) {
	return rlp.EncodeToBytes(&b)
}

// Hash is SHA-256 over the canonical encoding. Mutating any field,
// including Nonce, changes the hash (P6).
func (b Block) Hash() (primitives.Hash32, error) {
	enc, err := b.CanonicalEncode()
	if err != nil {
		return primitives.Hash32{}, err
	}
	return primitives.SumSHA256(enc), nil
}

// maxTarget is the largest possible 256-bit hash interpretation,
// 2^256 - 1.
var maxTarget = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// MeetsDifficulty reports whether the block's hash, read as a big-endian
// unsigned integer, falls under the target derived from difficulty.
// Larger difficulty means a smaller target, hence harder to meet.
func (b Block) MeetsDifficulty(difficulty uint64) (bool, error) {
	hash, err := b.Hash()
	if err != nil {
		return false, err
	}
	return HashMeetsDifficulty(hash, difficulty), nil
}

// HashMeetsDifficulty applies the difficulty predicate to an
// already-computed hash, avoiding recomputation when the caller has
// one on hand.
func HashMeetsDifficulty(hash primitives.Hash32, difficulty uint64) bool {
	if difficulty == 0 {
		difficulty = 1
	}
	target := new(big.Int).Div(maxTarget, new(big.Int).SetUint64(difficulty))
	hashInt := new(big.Int).SetBytes(hash[:])
	return hashInt.Cmp(target) <= 0
}

// Reward is the miner reward this block is entitled to at its slot,
// given the supply issued strictly before it.
func (b Block) Reward(issuedSoFar uint64) uint64 {
	return economics.Reward(b.Slot, issuedSoFar)
}
