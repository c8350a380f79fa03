package commit_hold

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	commitHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/commit_hold"
)

// BookingRefResponse HTTP response model подтверждённого бронирования
type BookingRefResponse struct {
	BookingID  int64  `json:"bookingId"`
	HoldID     string `json:"holdId"`
	ServiceID  int64  `json:"serviceId"`
	ProviderID int64  `json:"providerId"`
	SlotID     int64  `json:"slotId"`
	SlotDate   string `json:"slotDate"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	CreatedAt  string `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitHold.Response) *BookingRefResponse {
	return &BookingRefResponse{
		BookingID:  resp.BookingID,
		HoldID:     resp.HoldID,
		ServiceID:  resp.ServiceID,
		ProviderID: resp.ProviderID,
		SlotID:     resp.SlotID,
		SlotDate:   resp.SlotDate.Format(domain.DateFormat),
		StartTime:  resp.StartTime.String(),
		EndTime:    resp.EndTime.String(),
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
