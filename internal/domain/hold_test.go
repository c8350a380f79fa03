package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldTTLSchedule(t *testing.T) {
	t.Parallel()

	schedule := DefaultHoldTTLSchedule()

	assert.Equal(t, 15*time.Minute, schedule.TTL(HoldPolicySingle))
	assert.Equal(t, 60*time.Minute, schedule.TTL(HoldPolicyBundle))

	custom := HoldTTLSchedule{Single: 5 * time.Minute, Bundle: 2 * time.Hour}
	assert.Equal(t, 5*time.Minute, custom.TTL(HoldPolicySingle))
	assert.Equal(t, 2*time.Hour, custom.TTL(HoldPolicyBundle))
}

func TestHoldPolicyClassIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, HoldPolicySingle.IsValid())
	assert.True(t, HoldPolicyBundle.IsValid())
	assert.False(t, HoldPolicyClass("weekly").IsValid())
	assert.False(t, HoldPolicyClass("").IsValid())
}

func TestSoftHoldIsActiveAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	hold := &SoftHold{Status: HoldStatusActive, ExpiresAt: now.Add(15 * time.Minute)}

	assert.True(t, hold.IsActiveAt(now))
	assert.True(t, hold.IsActiveAt(now.Add(15*time.Minute-time.Second)))
	// Ровно в expires_at холд уже не активен
	assert.False(t, hold.IsActiveAt(now.Add(15*time.Minute)))
	assert.False(t, hold.IsActiveAt(now.Add(15*time.Minute+time.Second)))

	for _, status := range []HoldStatus{HoldStatusCommitted, HoldStatusReleased, HoldStatusExpired} {
		terminal := &SoftHold{Status: status, ExpiresAt: now.Add(time.Hour)}
		assert.False(t, terminal.IsActiveAt(now), "status %s", status)
		assert.True(t, terminal.IsTerminal(), "status %s", status)
	}
}

func TestCalendarSlotSpareCapacity(t *testing.T) {
	t.Parallel()

	slot := &CalendarSlot{MaxBookings: 3, CurrentBookings: 1}

	assert.Equal(t, 2, slot.SpareCapacity(0))
	assert.Equal(t, 1, slot.SpareCapacity(1))
	assert.Equal(t, 0, slot.SpareCapacity(2))
	// Избыточные холды не уводят spare в минус
	assert.Equal(t, 0, slot.SpareCapacity(5))

	assert.False(t, slot.IsFull())
	full := &CalendarSlot{MaxBookings: 2, CurrentBookings: 2}
	assert.True(t, full.IsFull())
}
