package get_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

const (
	msgInvalidProviderID = "некорректный ID поставщика"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// SlotModel HTTP модель слота с занятостью
type SlotModel struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	MaxBookings     int     `json:"maxBookings"`
	CurrentBookings int     `json:"currentBookings"`
	OccupancyRate   float64 `json:"occupancyRate"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ProviderID int64       `json:"providerId"`
	Slots      []SlotModel `json:"slots"`
}

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/slots?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/slots - Invalid date: provider_id=%d, date=%s", providerID, raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &parsed
	}

	slots, err := h.service.GetProviderSlots(r.Context(), providerID, date)
	if err != nil {
		h.logger.Error("GET /providers/{id}/slots - Failed to get slots: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := &SlotsResponse{
		ProviderID: providerID,
		Slots:      make([]SlotModel, 0, len(slots)),
	}
	for _, slot := range slots {
		response.Slots = append(response.Slots, SlotModel{
			ID:              slot.ID,
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			MaxBookings:     slot.MaxBookings,
			CurrentBookings: slot.CurrentBookings,
			OccupancyRate:   slot.OccupancyRate(),
		})
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
