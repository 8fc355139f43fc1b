package calculation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepWithdrawalMonotonicity(t *testing.T) {
	prev := seedFunc
	SetSeedFunc(func() int64 { return 20250101 })
	defer SetSeedFunc(prev)

	violations, err := SweepWithdrawalMonotonicity(context.Background(), Seed(), 60, DefaultSolverConfig())
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("monotonicity violation: %s", v)
	}
}

func TestSolverPropertyAcrossRandomParameters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 40; i++ {
		params := RandomParameters(rng)
		res := SearchMaxWithdrawal(params, DefaultSolverConfig())
		if !res.Bracketed {
			continue
		}
		assert.Nil(t, Simulate(params.WithWithdrawal(res.Rate)).ExhaustedAt, "params %+v", params)
		assert.NotNil(t, Simulate(params.WithWithdrawal(res.Rate+2)).ExhaustedAt, "params %+v", params)
	}
}

func TestCheckWithdrawalMonotonicity_AcceptsUnsortedRates(t *testing.T) {
	v := CheckWithdrawalMonotonicity(presetParams(), []float64{20000, 0, 6000, 13000})
	assert.Nil(t, v)
}

func TestSweepWithdrawalMonotonicity_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SweepWithdrawalMonotonicity(ctx, 1, 10, DefaultSolverConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
