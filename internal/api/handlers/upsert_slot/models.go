package upsert_slot

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

// UpsertSlotRequest HTTP request model
type UpsertSlotRequest struct {
	Date        string `json:"date"`      // "2026-03-15"
	StartTime   string `json:"startTime"` // "10:00"
	EndTime     string `json:"endTime"`   // "11:00"
	MaxBookings int    `json:"maxBookings"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID              int64  `json:"id"`
	ProviderID      int64  `json:"providerId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	MaxBookings     int    `json:"maxBookings"`
	CurrentBookings int    `json:"currentBookings"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToDomainSlot конвертирует HTTP запрос в доменную модель слота
func (r *UpsertSlotRequest) ToDomainSlot(providerID int64) (*domain.CalendarSlot, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.CalendarSlot{
		ProviderID:  providerID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		MaxBookings: r.MaxBookings,
	}, nil
}

// FromDomainSlot конвертирует доменную модель слота в HTTP response
func FromDomainSlot(slot *domain.CalendarSlot) *SlotResponse {
	return &SlotResponse{
		ID:              slot.ID,
		ProviderID:      slot.ProviderID,
		Date:            slot.Date.Format(domain.DateFormat),
		StartTime:       slot.StartTime.String(),
		EndTime:         slot.EndTime.String(),
		MaxBookings:     slot.MaxBookings,
		CurrentBookings: slot.CurrentBookings,
		CreatedAt:       slot.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       slot.UpdatedAt.Format(time.RFC3339),
	}
}
