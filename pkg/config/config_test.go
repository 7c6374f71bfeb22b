package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAttainmentDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Attainment.ThresholdPercentage)
	assert.Equal(t, 60.0, cfg.Attainment.TargetStudentPercentage)
	assert.Equal(t, 50.0, cfg.Attainment.Level2StudentPercentage)
	assert.Equal(t, 40.0, cfg.Attainment.StudentLevel2Percentage)
	assert.Equal(t, 40.0, cfg.Attainment.PassPercentage)
	assert.Equal(t, 30*time.Second, cfg.Attainment.LockTTL)
	assert.True(t, cfg.Attainment.AutoRecalculate)
	assert.Equal(t, "./exports", cfg.Exports.StorageDir)
}

func TestLoadAttainmentOverrides(t *testing.T) {
	t.Setenv("ATTAINMENT_THRESHOLD_PERCENTAGE", "65.5")
	t.Setenv("ATTAINMENT_CACHE_TTL", "5m")
	t.Setenv("ATTAINMENT_AUTO_RECALCULATE", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 65.5, cfg.Attainment.ThresholdPercentage)
	assert.Equal(t, 5*time.Minute, cfg.Attainment.CacheTTL)
	assert.False(t, cfg.Attainment.AutoRecalculate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParseHelpersFallBack(t *testing.T) {
	assert.Equal(t, 12.0, parseFloat("abc", 12))
	assert.Equal(t, 7.25, parseFloat(" 7.25 ", 0))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Nil(t, splitAndTrim(""))
}
