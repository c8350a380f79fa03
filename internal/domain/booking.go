package domain

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

// Booking подтверждённое бронирование, созданное коммитом софт-холда.
// Данные слота денормализованы для истории: слот может быть изменён позже.
type Booking struct {
	ID         int64
	HoldID     string
	ServiceID  int64
	ProviderID int64
	SlotID     int64
	HolderID   int64

	SlotDate      time.Time
	SlotStartTime types.TimeString
	SlotEndTime   types.TimeString

	CreatedAt time.Time
}
