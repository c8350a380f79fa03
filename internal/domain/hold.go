package domain

import "time"

// HoldStatus статус софт-холда
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusCommitted HoldStatus = "committed"
	HoldStatusReleased  HoldStatus = "released"
	HoldStatusExpired   HoldStatus = "expired"
)

// HoldPolicyClass закрытый набор политик холда.
// Каждая политика несёт свой TTL; выбор TTL — исчерпывающий switch,
// а не сравнение строк по месту.
type HoldPolicyClass string

const (
	HoldPolicySingle HoldPolicyClass = "single"
	HoldPolicyBundle HoldPolicyClass = "bundle"
)

// IsValid returns true for a known policy class
func (c HoldPolicyClass) IsValid() bool {
	switch c {
	case HoldPolicySingle, HoldPolicyBundle:
		return true
	}
	return false
}

// HoldTTLSchedule расписание TTL по классам политики.
// Значения приходят из конфигурации; дефолты — 15 и 60 минут.
type HoldTTLSchedule struct {
	Single time.Duration
	Bundle time.Duration
}

// DefaultHoldTTLSchedule возвращает расписание с дефолтными TTL
func DefaultHoldTTLSchedule() HoldTTLSchedule {
	return HoldTTLSchedule{
		Single: DefaultSingleHoldTTL,
		Bundle: DefaultBundleHoldTTL,
	}
}

// TTL возвращает время жизни холда для класса политики
func (s HoldTTLSchedule) TTL(class HoldPolicyClass) time.Duration {
	switch class {
	case HoldPolicyBundle:
		return s.Bundle
	default:
		return s.Single
	}
}

// SoftHold эфемерная резервация одной единицы свободной вместимости слота.
// Занимает spare capacity, не изменяя CurrentBookings.
// Жизненный цикл: active -> committed | released | expired (терминальные).
type SoftHold struct {
	ID          string
	ServiceID   int64
	ProviderID  int64
	SlotID      int64
	HolderID    int64
	PolicyClass HoldPolicyClass
	Status      HoldStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsActiveAt returns true if the hold still counts against spare capacity.
// Истечение проверяется лениво: просроченный холд перестает учитываться,
// даже если sweeper его ещё не убрал.
func (h *SoftHold) IsActiveAt(now time.Time) bool {
	return h.Status == HoldStatusActive && now.Before(h.ExpiresAt)
}

// IsTerminal returns true for committed, released and expired holds
func (h *SoftHold) IsTerminal() bool {
	return h.Status != HoldStatusActive
}

// IsOwnedBy returns true if holderID created this hold
func (h *SoftHold) IsOwnedBy(holderID int64) bool {
	return h.HolderID == holderID
}

// CanCommitAt returns true if the hold may be converted into a booking
func (h *SoftHold) CanCommitAt(now time.Time) bool {
	return h.IsActiveAt(now)
}
