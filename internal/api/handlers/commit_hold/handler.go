package commit_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/api/middleware"
	commitHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/commit_hold"
)

const (
	msgInvalidHoldID = "некорректный ID холда"
	msgMissingUserID = "отсутствует ID пользователя"
	msgHoldNotFound  = "холд не найден"
	msgForbidden     = "доступ запрещен"
	msgHoldExpired   = "холд просрочен или уже завершён"
	msgCapacityIssue = "вместимость слота исчерпана"
)

type Handler struct {
	useCase CommitHoldUseCase
	logger  Logger
}

func NewHandler(useCase CommitHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdId}/commit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holdID := vars["holdId"]
	if holdID == "" {
		h.logger.Warn("POST /holds/{id}/commit - Missing hold ID")
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	// Получаем holderID из контекста (через middleware Auth)
	holderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /holds/{id}/commit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &commitHold.Request{
		HoldID:   holdID,
		HolderID: holderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, commitHold.ErrInvalidInput):
			h.logger.Warn("POST /holds/{id}/commit - Invalid input: hold_id=%s", holdID)
			handlers.RespondBadRequest(w, msgInvalidHoldID)

		case errors.Is(err, commitHold.ErrHoldNotFound):
			h.logger.Warn("POST /holds/{id}/commit - Hold not found: hold_id=%s", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, commitHold.ErrHoldNotOwned):
			h.logger.Warn("POST /holds/{id}/commit - Access denied: hold_id=%s, holder_id=%d", holdID, holderID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, commitHold.ErrHoldExpired):
			h.logger.Warn("POST /holds/{id}/commit - Hold expired: hold_id=%s", holdID)
			handlers.RespondError(w, http.StatusConflict, msgHoldExpired)

		case errors.Is(err, commitHold.ErrCapacityViolated):
			// Дефект внутренней согласованности, уже залогирован usecase'ом
			handlers.RespondError(w, http.StatusConflict, msgCapacityIssue)

		default:
			h.logger.Error("POST /holds/{id}/commit - Failed to commit hold: hold_id=%s, error=%v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/{id}/commit - Hold committed: hold_id=%s, booking_id=%d",
		holdID, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
