package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("FAIRNESS_HISTORY_WINDOW_DAYS")
	os.Unsetenv("APPLY_DEFAULT_DEADLINE_MS")
	os.Unsetenv("APPLY_STRICT_DEFAULT")

	cfg := Load()
	assert.Equal(t, 365, cfg.FairnessHistoryWindowDays)
	assert.Equal(t, 30*time.Second, cfg.ApplyDefaultDeadline)
	assert.False(t, cfg.ApplyStrictDefault)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	os.Setenv("FAIRNESS_HISTORY_WINDOW_DAYS", "90")
	os.Setenv("APPLY_DEFAULT_DEADLINE_MS", "5000")
	os.Setenv("APPLY_STRICT_DEFAULT", "true")
	defer os.Unsetenv("FAIRNESS_HISTORY_WINDOW_DAYS")
	defer os.Unsetenv("APPLY_DEFAULT_DEADLINE_MS")
	defer os.Unsetenv("APPLY_STRICT_DEFAULT")

	cfg := Load()
	assert.Equal(t, 90, cfg.FairnessHistoryWindowDays)
	assert.Equal(t, 5*time.Second, cfg.ApplyDefaultDeadline)
	assert.True(t, cfg.ApplyStrictDefault)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	os.Setenv("FAIRNESS_SCALE", "not-a-float")
	defer os.Unsetenv("FAIRNESS_SCALE")

	cfg := Load()
	assert.Equal(t, 1.0, cfg.FairnessScale)
}
