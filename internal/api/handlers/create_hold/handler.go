package create_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/EVM-AvailabilityService/internal/api/middleware"
	createHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgServiceNotFound        = "услуга не найдена"
	msgServiceNotBookable     = "услуга недоступна для бронирования"
	msgServiceWithoutCalendar = "услуга не использует календарные слоты"
	msgNoSpareCapacity        = "нет свободной вместимости для удержания"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем holderID из контекста (через middleware Auth)
	holderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /holds - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(holderID))
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /holds - Invalid input: service_id=%d, provider_id=%d, error=%v",
				req.ServiceID, req.ProviderID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createHold.ErrServiceNotFound):
			h.logger.Warn("POST /holds - Service not found: service_id=%d, provider_id=%d",
				req.ServiceID, req.ProviderID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createHold.ErrServiceNotBookable):
			h.logger.Warn("POST /holds - Service not bookable: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgServiceNotBookable)

		case errors.Is(err, createHold.ErrServiceWithoutCalendar):
			h.logger.Warn("POST /holds - Service without calendar: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceWithoutCalendar)

		case errors.Is(err, createHold.ErrNoSpareCapacity):
			// Ожидаемый исход под конкуренцией, не сбой
			h.logger.Info("POST /holds - No spare capacity: service_id=%d, provider_id=%d",
				req.ServiceID, req.ProviderID)
			handlers.RespondError(w, http.StatusConflict, msgNoSpareCapacity)

		default:
			h.logger.Error("POST /holds - Failed to create hold: service_id=%d, provider_id=%d, error=%v",
				req.ServiceID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds - Hold created: hold_id=%s, holder_id=%d, expires_at=%s",
		result.HoldID, holderID, result.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
