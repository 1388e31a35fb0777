package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-adherence/internal/domain/reminders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Every_AddsDailyEntries(t *testing.T) {
	s := New(Options{Location: time.UTC})

	require.NoError(t, s.Every(reminders.Clock{Hour: 7, Minute: 45}, func() {}))
	require.NoError(t, s.Every(reminders.Clock{Hour: 8}, func() {}))
	assert.Equal(t, 2, s.Len())

	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	for _, e := range s.c.Entries() {
		next := e.Next.In(time.UTC)
		assert.Contains(t, []int{7, 8}, next.Hour())
		assert.Contains(t, []int{45, 0}, next.Minute())
	}
}

func TestScheduler_Every_RejectsInvalidClock(t *testing.T) {
	s := New(Options{})

	err := s.Every(reminders.Clock{Hour: 25, Minute: 0}, func() {})
	assert.Error(t, err)

	err = s.Every(reminders.Clock{Hour: 8}, nil)
	assert.Error(t, err)
	assert.Zero(t, s.Len())
}

func TestScheduler_Stop_HonorsContext(t *testing.T) {
	s := New(Options{})
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Stop(ctx)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
}

func TestKV_IgnoresOddAndNonStringKeys(t *testing.T) {
	got := kv([]interface{}{"entry", 3, 42, "x", "dangling"})
	assert.Equal(t, map[string]any{"entry": 3}, got)
}
