package release_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/api/middleware"
	releaseHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/release_hold"
)

const (
	msgInvalidHoldID = "некорректный ID холда"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
)

// ReleaseResponse HTTP response model
type ReleaseResponse struct {
	Released bool `json:"released"`
}

type Handler struct {
	useCase ReleaseHoldUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holdID := vars["holdId"]
	if holdID == "" {
		h.logger.Warn("POST /holds/{id}/release - Missing hold ID")
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	// Получаем holderID из контекста (через middleware Auth)
	holderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /holds/{id}/release - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &releaseHold.Request{
		HoldID:   holdID,
		HolderID: holderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, releaseHold.ErrInvalidInput):
			h.logger.Warn("POST /holds/{id}/release - Invalid input: hold_id=%s", holdID)
			handlers.RespondBadRequest(w, msgInvalidHoldID)

		case errors.Is(err, releaseHold.ErrHoldNotOwned):
			h.logger.Warn("POST /holds/{id}/release - Access denied: hold_id=%s, holder_id=%d", holdID, holderID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /holds/{id}/release - Failed to release hold: hold_id=%s, error=%v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/{id}/release - Release processed: hold_id=%s, released=%t", holdID, result.Released)
	handlers.RespondJSON(w, http.StatusOK, &ReleaseResponse{Released: result.Released})
}
