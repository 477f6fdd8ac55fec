package dashboard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronScheduler_EveryAndStop(t *testing.T) {
	s := NewCronScheduler(nil)
	defer s.Stop()

	var calls atomic.Int32
	task, err := s.Every(time.Second, func() { calls.Add(1) })
	require.NoError(t, err)
	other, err := s.Every(time.Hour, func() {})
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 2)

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	task.Stop()
	assert.Len(t, s.cron.Entries(), 1)
	other.Stop()
	assert.Empty(t, s.cron.Entries())
}

func TestCronScheduler_InvalidPeriod(t *testing.T) {
	s := NewCronScheduler(nil)
	defer s.Stop()

	_, err := s.Every(0, func() {})
	assert.Error(t, err)
}
