package register_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/EVM-AvailabilityService/internal/api/handlers"
	registerService "github.com/m04kA/EVM-AvailabilityService/internal/usecase/register_service"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgCategoryNotFound    = "категория не найдена"
	msgSubcategoryNotFound = "подкатегория не найдена"
	msgSubcategoryMismatch = "подкатегория не принадлежит категории"
)

type Handler struct {
	useCase RegisterServiceUseCase
	logger  Logger
}

func NewHandler(useCase RegisterServiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RegisterServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, registerService.ErrInvalidInput):
			h.logger.Warn("POST /services - Invalid input: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, registerService.ErrCategoryNotFound):
			h.logger.Warn("POST /services - Category not found: category_id=%d", req.CategoryID)
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, registerService.ErrSubcategoryNotFound):
			h.logger.Warn("POST /services - Subcategory not found: subcategory_id=%d", req.SubcategoryID)
			handlers.RespondNotFound(w, msgSubcategoryNotFound)

		case errors.Is(err, registerService.ErrSubcategoryMismatch):
			h.logger.Warn("POST /services - Subcategory mismatch: category_id=%d, subcategory_id=%d",
				req.CategoryID, req.SubcategoryID)
			handlers.RespondBadRequest(w, msgSubcategoryMismatch)

		default:
			h.logger.Error("POST /services - Failed to register service: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /services - Service registered: service_id=%d, provider_id=%d",
		result.ServiceID, result.ProviderID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
