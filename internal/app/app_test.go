package app

import (
	"context"
	"testing"
	"time"

	"medication-adherence/internal/adapters/notify/logonly"
	"medication-adherence/internal/adapters/notify/twilio"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatcher_FallsBackToLogOnly(t *testing.T) {
	d := NewDispatcher(config.Config{}, logger.Nop())
	_, ok := d.(*logonly.Dispatcher)
	assert.True(t, ok)

	d = NewDispatcher(config.Config{Twilio: config.TwilioConfig{
		AccountSID: "AC123", AuthToken: "tok", FromNumber: "+15005550006",
	}}, logger.Nop())
	c, ok := d.(*twilio.Client)
	require.True(t, ok)
	assert.True(t, c.IsConfigured())
}

func TestOpenStorage_NoDSNIsMemory(t *testing.T) {
	db, err := OpenStorage(context.Background(), config.Config{}, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestPlannerOptions_FromConfig(t *testing.T) {
	cfg := config.Config{Reminders: config.RemindersConfig{
		CountryCode: "+1",
		CallDelay:   2 * time.Second,
		PreOffsets:  []int{30, 0},
		PostOffset:  10,
	}}
	o := PlannerOptions(cfg)
	assert.Equal(t, "+1", o.CountryCode)
	assert.Equal(t, 2*time.Second, o.CallDelay)
	assert.Equal(t, []int{30, 0}, o.PreOffsets)
	assert.Equal(t, 10, o.PostOffset)
}
