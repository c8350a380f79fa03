package filter_services

import (
	"net/http"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/services/filter
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services/filter - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	filtered, err := h.service.FilterAvailableServices(r.Context(), req.ToDomainRefs())
	if err != nil {
		h.logger.Error("POST /services/filter - Failed to filter services: candidates=%d, error=%v",
			len(req.Candidates), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /services/filter - Filtered: candidates=%d, available=%d",
		len(req.Candidates), len(filtered))
	handlers.RespondJSON(w, http.StatusOK, FromDomainRefs(filtered))
}
