package get_service_availability

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
)

const (
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidProviderID = "некорректный ID поставщика"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ServiceID  int64 `json:"serviceId"`
	ProviderID int64 `json:"providerId"`
	Available  bool  `json:"available"`
}

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

// Handle GET /api/v1/services/{serviceId}/availability?providerId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	providerID, err := strconv.ParseInt(r.URL.Query().Get("providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("GET /services/{id}/availability - Invalid provider ID: service_id=%d", serviceID)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	available, err := h.service.IsServiceAvailable(r.Context(), serviceID, providerID)
	if err != nil {
		h.logger.Error("GET /services/{id}/availability - Failed to check availability: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AvailabilityResponse{
		ServiceID:  serviceID,
		ProviderID: providerID,
		Available:  available,
	})
}
