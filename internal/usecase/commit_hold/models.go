package commit_hold

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

// Request модель запроса на коммит холда
type Request struct {
	HoldID   string // ID холда
	HolderID int64  // Идентификатор держателя (только владелец может коммитить)
}

// Response подтверждённое бронирование (BookingRef)
type Response struct {
	BookingID  int64            // ID созданного бронирования
	HoldID     string           // ID исходного холда
	ServiceID  int64            // ID услуги
	ProviderID int64            // ID поставщика
	SlotID     int64            // ID слота
	SlotDate   time.Time        // Дата слота
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	CreatedAt  time.Time        // Момент подтверждения
}
