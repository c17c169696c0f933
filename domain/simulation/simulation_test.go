package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalEstimate(t *testing.T) {
	ci := IntervalEstimate{Lower: -1, Upper: 3}

	assert.Equal(t, 4.0, ci.Width())
	assert.True(t, ci.Covers(0))
	assert.True(t, ci.Covers(-1), "bounds are inclusive")
	assert.True(t, ci.Covers(3), "bounds are inclusive")
	assert.False(t, ci.Covers(3.0001))
	assert.True(t, ci.IsFinite())

	assert.False(t, IntervalEstimate{Lower: math.Inf(-1), Upper: 1}.IsFinite())
	assert.False(t, IntervalEstimate{Lower: math.NaN(), Upper: 1}.IsFinite())
}

func TestGridConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultGridConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*GridConfig)
	}{
		{"empty sample sizes", func(c *GridConfig) { c.SampleSizes = nil }},
		{"zero sample size", func(c *GridConfig) { c.SampleSizes = []int{50, 0} }},
		{"no replicates", func(c *GridConfig) { c.Replicates = 0 }},
		{"no remediation replicates", func(c *GridConfig) { c.RemediationReps = 0 }},
		{"alpha at one", func(c *GridConfig) { c.Alpha = 1 }},
		{"alpha at zero", func(c *GridConfig) { c.Alpha = 0 }},
		{"no bootstrap draws", func(c *GridConfig) { c.BootstrapDraws = 0 }},
		{"trim at half", func(c *GridConfig) { c.TrimFraction = 0.5 }},
		{"negative trim", func(c *GridConfig) { c.TrimFraction = -0.1 }},
		{"tiny mixture draw", func(c *GridConfig) { c.MixtureBreakdownN = 3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGridConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
