// Package economics implements the halving-aware, supply-capped
// monetary issuance rule described in spec section 4.5.
package economics

import (
	"fmt"
	"time"

	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// Symbol is the display ticker used by FormatAmount and the CLI.
const Symbol = "TMC"

const (
	// Decimals is the number of fractional digits a raw integer amount
	// is divided by for display.
	Decimals = 8

	// HalvingInterval is the number of blocks between successive
	// reward halvings.
	HalvingInterval = 210_000

	// InitialReward is the miner reward paid at slot 0, in raw units
	// (50 whole coins at Decimals=8).
	InitialReward = 5_000_000_000

	// MaxSupply is the hard cap on total issuance, in raw units (21
	// million whole coins at Decimals=8). Chosen, together with
	// InitialReward and HalvingInterval, to satisfy the geometric
	// series identity checked in init below.
	MaxSupply = 2_100_000_000_000_000

	// MinFee is the minimum per-transaction fee apply_tx enforces.
	MinFee = 1_000

	// TargetTime is the minimum wall-clock interval the time-lock
	// gate enforces between accepted blocks (I7), measured by a
	// monotonic clock per the spec's open-question resolution.
	TargetTime = 3600 * time.Second
)

func init() {
	// Geometric-series identity: a halving schedule that pays
	// InitialReward for HalvingInterval blocks, then half that for
	// the next HalvingInterval, and so on, sums to exactly
	// InitialReward * HalvingInterval * 2. If this constant set drifts
	// out of that identity the cap and the schedule disagree, which is
	// a startup-fatal configuration error rather than something to
	// detect at runtime.
	const lhs = uint64(InitialReward) * uint64(HalvingInterval) * 2
	if lhs != uint64(MaxSupply) {
		panic(fmt.Sprintf("economics: INITIAL_REWARD*HALVING_INTERVAL*2 (%d) != MAX_SUPPLY (%d)", lhs, uint64(MaxSupply)))
	}
}

// Reward computes the miner reward for a block at the given height
// (slot), given the supply issued strictly before it:
//
//	reward(height, issued) = min(INITIAL_REWARD >> (height/HALVING_INTERVAL), MAX_SUPPLY - issued)
//
// clamped to zero once the bit shift underflows past the reward's
// bit width or the cap is already exhausted.
func Reward(height, issued uint64) uint64 {
	halvings := height / HalvingInterval
	if halvings >= 64 {
		return 0
	}
	reward := uint64(InitialReward) >> halvings
	if reward == 0 {
		return 0
	}
	if issued >= MaxSupply {
		return 0
	}
	remaining := MaxSupply - issued
	if reward > remaining {
		return remaining
	}
	return reward
}

// FormatAmount renders a raw integer amount as a decimal string with
// the ticker symbol, e.g. "50.00000000 TMC".
func FormatAmount(raw uint64) string {
	const scale = 100_000_000 // 10^Decimals, kept literal to match Decimals above
	whole := raw / scale
	frac := raw % scale
	return fmt.Sprintf("%d.%08d %s", whole, frac, Symbol)
}

// SupplyInfo summarizes issuance against the cap: mined so far,
// remaining headroom, and the percentage of the cap already issued.
func SupplyInfo(issued uint64) (mined, remaining uint64, percent float64) {
	mined = issued
	remaining = primitives.SatSub64(MaxSupply, issued)
	percent = float64(issued) / float64(MaxSupply) * 100
	return
}
