// Package genesis holds the one true genesis block and its anchor
// hash. Per spec section 1, the anchor bootstrap ceremony itself is
// out of scope — its output is a trusted constant input to the core.
// This package plays the role of that trusted input: a fixed genesis
// block whose hash is computed once, at package initialization, and
// treated from then on as the compile-time GENESIS_ANCHOR constant
// spec section 3 describes.
package genesis

import (
	"github.com/timechain-project/timechain-core/pkg/block"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// Block is the fixed genesis block every Timechain instance in this
// network must agree on. It carries no transactions, no VDF or ZK
// proof, and mines under the zero address — there is no miner to
// admit at slot 0.
var Block = block.Block{
	Parent:       primitives.Hash32{},
	Slot:         0,
	Miner:        primitives.Address{},
	Transactions: nil,
	VDFProof:     nil,
	ZKProof:      nil,
	Nonce:        0,
}

// Anchor is the trusted constant every Timechain.New call compares the
// supplied genesis block's hash against (I3). It is derived from Block
// above rather than hand-transcribed as a hex literal, since this
// implementation has no prior on-chain ceremony to transcribe from;
// a real deployment freezes this into a literal after its one true
// genesis mine, the way the reference implementation's comment
// describes doing.
var Anchor = mustHash(Block)

func mustHash(b block.Block) primitives.Hash32 {
	h, err := b.Hash()
	if err != nil {
		panic("genesis: failed to hash genesis block: " + err.Error())
	}
	return h
}
