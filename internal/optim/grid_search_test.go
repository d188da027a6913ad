package optim

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/navcom/internal/config"
)

func TestCombinations(t *testing.T) {
	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{{1, 2}, {3, 4, 5}})
	combos := g.Combinations()
	require.Len(t, combos, 6)
	assert.Equal(t, map[string]float64{"kp": 1, "kd": 3}, combos[0])
	assert.Equal(t, map[string]float64{"kp": 2, "kd": 5}, combos[5])

	assert.Empty(t, NewGridSearch(nil, nil).Combinations())
	assert.Empty(t, NewGridSearch([]string{"kp"}, nil).Combinations())
}

func TestApplyGains(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, ApplyGains(cfg, map[string]float64{"kp": 3, "ki": 0.5, "kd": 7}))
	assert.Equal(t, config.GainsConfig{Kp: 3, Ki: 0.5, Kd: 7}, cfg.Pitch)
	assert.Equal(t, cfg.Pitch, cfg.Yaw)

	assert.Error(t, ApplyGains(cfg, map[string]float64{"gain": 1}))
}

func TestSearchPicksFastestSettle(t *testing.T) {
	base := config.GetPreset("quarter-turn")
	base.Duration = 10

	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{{2, 10}, {0.2, 10}})
	best, all, err := g.Search(context.Background(), base, ApplyGains, "settling_time", zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, all, 4)

	for _, c := range all {
		assert.GreaterOrEqual(t, c.Score, best.Score)
	}
	assert.False(t, math.IsInf(best.Score, 1), "no candidate settled")
	assert.Equal(t, "quarter-turn", base.Name, "base config must not be modified")
}

func TestSearchEmptyGrid(t *testing.T) {
	_, _, err := NewGridSearch(nil, nil).Search(context.Background(), config.DefaultConfig(), ApplyGains, "final_error", zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoCandidates)
}
