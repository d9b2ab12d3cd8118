package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("MEMBER_DISCOUNT_PCT", "8")
	t.Setenv("BOOKING_HOLD_MINUTES", "15")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", config.App.Port)
	assert.Equal(t, 30*time.Second, config.Booking.SweepInterval)
	assert.Equal(t, 8, config.Booking.MemberDiscountPct)
	assert.Equal(t, 15*time.Minute, config.Booking.HoldDuration())
	assert.Equal(t, "5432", config.Database.Port)
}
