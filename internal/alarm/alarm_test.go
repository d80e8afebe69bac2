package alarm

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tz         int
		wantOffset int
	}{
		{name: "utc", tz: 0, wantOffset: 0},
		{name: "east", tz: 3, wantOffset: 3 * 3600},
		{name: "west", tz: -12, wantOffset: -12 * 3600},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, Zone(tc.tz)).Zone()
			require.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestManual_NowKeepsInstant(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManual(start)

	local := m.Now(2)
	require.True(t, local.Equal(start))
	require.Equal(t, 14, local.Hour())
}

func TestManual_Advance(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManual(start)

	var fast, slow []time.Time
	cancelFast := m.ScheduleRecurring(time.Minute, func() { fast = append(fast, m.Now(0)) })
	m.ScheduleRecurring(5*time.Minute, func() { slow = append(slow, m.Now(0)) })
	require.Equal(t, 2, m.Scheduled())

	m.Advance(30 * time.Second)
	require.Empty(t, fast)

	m.Advance(5 * time.Minute)
	require.Len(t, fast, 5)
	require.Len(t, slow, 1)
	require.True(t, slow[0].Equal(start.Add(5*time.Minute)))
	require.True(t, m.Now(0).Equal(start.Add(5*time.Minute+30*time.Second)))

	cancelFast()
	cancelFast()
	require.Equal(t, 1, m.Scheduled())

	m.Advance(10 * time.Minute)
	require.Len(t, fast, 5)
	require.Len(t, slow, 3)
}

func TestManual_CallbackMayCancelItself(t *testing.T) {
	t.Parallel()
	m := NewManual(time.Unix(0, 0))

	calls := 0
	var cancel func()
	cancel = m.ScheduleRecurring(time.Second, func() {
		calls++
		cancel()
	})

	m.Advance(time.Minute)
	require.Equal(t, 1, calls)
	require.Zero(t, m.Scheduled())
}

func TestSystem_ScheduleRecurring(t *testing.T) {
	t.Parallel()
	s := NewSystem()

	var calls atomic.Int32
	cancel := s.ScheduleRecurring(5*time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	cancel()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.LessOrEqual(t, calls.Load(), stopped+1)
}
