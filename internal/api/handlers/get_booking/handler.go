package get_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64  `json:"id"`
	HoldID     string `json:"holdId"`
	ServiceID  int64  `json:"serviceId"`
	ProviderID int64  `json:"providerId"`
	SlotID     int64  `json:"slotId"`
	SlotDate   string `json:"slotDate"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	CreatedAt  string `json:"createdAt"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем holderID из контекста (через middleware Auth)
	holderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем бронирование (сервис сам проверит права доступа)
	booking, err := h.service.GetByID(r.Context(), bookingID, holderID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d, holder_id=%d", bookingID, holderID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, holder_id=%d", bookingID, holderID)
	handlers.RespondJSON(w, http.StatusOK, &BookingResponse{
		ID:         booking.ID,
		HoldID:     booking.HoldID,
		ServiceID:  booking.ServiceID,
		ProviderID: booking.ProviderID,
		SlotID:     booking.SlotID,
		SlotDate:   booking.SlotDate.Format(domain.DateFormat),
		StartTime:  booking.SlotStartTime.String(),
		EndTime:    booking.SlotEndTime.String(),
		CreatedAt:  booking.CreatedAt.Format(time.RFC3339),
	})
}
