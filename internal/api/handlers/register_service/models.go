package register_service

import (
	"time"

	registerService "github.com/m04kA/EVM-AvailabilityService/internal/usecase/register_service"
)

// RegisterServiceRequest HTTP request model
type RegisterServiceRequest struct {
	ServiceID     int64 `json:"serviceId"`
	ProviderID    int64 `json:"providerId"`
	CategoryID    int64 `json:"categoryId"`
	SubcategoryID int64 `json:"subcategoryId"`

	IsAvailable           bool `json:"isAvailable"`
	HasCalendar           bool `json:"hasCalendar"`
	MaxConcurrentBookings int  `json:"maxConcurrentBookings"`
}

// ServiceResponse HTTP response model
type ServiceResponse struct {
	ServiceID     int64 `json:"serviceId"`
	ProviderID    int64 `json:"providerId"`
	CategoryID    int64 `json:"categoryId"`
	SubcategoryID int64 `json:"subcategoryId"`

	IsAvailable           bool `json:"isAvailable"`
	HasCalendar           bool `json:"hasCalendar"`
	MaxConcurrentBookings int  `json:"maxConcurrentBookings"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RegisterServiceRequest) ToUseCaseRequest() *registerService.Request {
	return &registerService.Request{
		ServiceID:             r.ServiceID,
		ProviderID:            r.ProviderID,
		CategoryID:            r.CategoryID,
		SubcategoryID:         r.SubcategoryID,
		IsAvailable:           r.IsAvailable,
		HasCalendar:           r.HasCalendar,
		MaxConcurrentBookings: r.MaxConcurrentBookings,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *registerService.Response) *ServiceResponse {
	return &ServiceResponse{
		ServiceID:             resp.ServiceID,
		ProviderID:            resp.ProviderID,
		CategoryID:            resp.CategoryID,
		SubcategoryID:         resp.SubcategoryID,
		IsAvailable:           resp.IsAvailable,
		HasCalendar:           resp.HasCalendar,
		MaxConcurrentBookings: resp.MaxConcurrentBookings,
		CreatedAt:             resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             resp.UpdatedAt.Format(time.RFC3339),
	}
}
