package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 80.0, cfg.Intervention.SuccessThreshold)
	assert.Equal(t, 3, cfg.Intervention.DefaultResetDays)
	require.Len(t, cfg.Intervention.DefaultChecklist, 5)
	assert.Equal(t, "Reset conversation completed", cfg.Intervention.DefaultChecklist[0])
	assert.Equal(t, 15*time.Minute, cfg.DomainCache.TTL)
	assert.Equal(t, time.UTC, cfg.Intervention.Location())
}

func TestFromViperRejectsOutOfRangeThreshold(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("INTERVENTION_SUCCESS_THRESHOLD", 140)
	v.Set("INTERVENTION_DEFAULT_RESET_DAYS", -2)

	cfg := fromViper(v)
	assert.Equal(t, 80.0, cfg.Intervention.SuccessThreshold)
	assert.Equal(t, 3, cfg.Intervention.DefaultResetDays)
}

func TestInterventionLocationFallsBackToUTC(t *testing.T) {
	cfg := InterventionConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
