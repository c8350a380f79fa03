package create_hold

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	createHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/create_hold"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ServiceID   int64  `json:"serviceId"`
	ProviderID  int64  `json:"providerId"`
	PolicyClass string `json:"policyClass"` // "single" | "bundle"
}

// HoldResponse HTTP response model
type HoldResponse struct {
	HoldID      string `json:"holdId"`
	SlotID      int64  `json:"slotId"`
	SlotDate    string `json:"slotDate"`
	PolicyClass string `json:"policyClass"`
	ExpiresAt   string `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// HolderID приходит из заголовка, а не из тела.
func (r *CreateHoldRequest) ToUseCaseRequest(holderID int64) *createHold.Request {
	return &createHold.Request{
		ServiceID:   r.ServiceID,
		ProviderID:  r.ProviderID,
		HolderID:    holderID,
		PolicyClass: domain.HoldPolicyClass(r.PolicyClass),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		HoldID:      resp.HoldID,
		SlotID:      resp.SlotID,
		SlotDate:    resp.SlotDate.Format(domain.DateFormat),
		PolicyClass: string(resp.PolicyClass),
		ExpiresAt:   resp.ExpiresAt.Format(time.RFC3339),
	}
}
