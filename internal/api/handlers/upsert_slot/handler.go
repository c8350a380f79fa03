package upsert_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/service/calendar"
)

const (
	msgInvalidProviderID  = "некорректный ID поставщика"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "некорректные параметры слота"
	msgInvalidDateTime    = "некорректный формат даты или времени"
)

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

// Handle PUT /api/v1/providers/{providerId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req UpsertSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/slots - Invalid request body: provider_id=%d, error=%v", providerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := req.ToDomainSlot(providerID)
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/slots - Failed to parse request: provider_id=%d, error=%v", providerID, err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	saved, err := h.service.UpsertSlot(r.Context(), slot)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/slots - Invalid slot: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("PUT /providers/{id}/slots - Failed to upsert slot: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/slots - Slot upserted: provider_id=%d, slot_id=%d", providerID, saved.ID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainSlot(saved))
}
