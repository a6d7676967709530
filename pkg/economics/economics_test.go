package economics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeometricIdentityHolds(t *testing.T) {
	require.Equal(t, uint64(MaxSupply), uint64(InitialReward)*uint64(HalvingInterval)*2)
}

func TestRewardAtGenesis(t *testing.T) {
	require.Equal(t, uint64(InitialReward), Reward(0, 0))
}

func TestRewardHalvesOnSchedule(t *testing.T) {
	require.Equal(t, uint64(InitialReward)/2, Reward(HalvingInterval, 0))
	require.Equal(t, uint64(InitialReward)/4, Reward(2*HalvingInterval, 0))
}

func TestRewardClampsToRemainingSupply(t *testing.T) {
	almostExhausted := uint64(MaxSupply) - 100
	require.Equal(t, uint64(100), Reward(0, almostExhausted))
}

func TestRewardIsZeroOnceSupplyExhausted(t *testing.T) {
	require.Equal(t, uint64(0), Reward(0, MaxSupply))
}

func TestRewardFloorsAtZeroForDeepHalvings(t *testing.T) {
	require.Equal(t, uint64(0), Reward(64*HalvingInterval, 0))
	require.Equal(t, uint64(0), Reward(1000*HalvingInterval, 0))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "50.00000000 TMC", FormatAmount(InitialReward))
	require.Equal(t, "0.00001000 TMC", FormatAmount(MinFee))
}

func TestSupplyInfo(t *testing.T) {
	mined, remaining, percent := SupplyInfo(MaxSupply / 2)
	require.Equal(t, uint64(MaxSupply/2), mined)
	require.Equal(t, uint64(MaxSupply)-MaxSupply/2, remaining)
	require.InDelta(t, 50.0, percent, 0.001)
}
