package filter_services

import "github.com/m04kA/EVM-AvailabilityService/internal/domain"

// ServiceRefModel пара (serviceId, providerId) в JSON
type ServiceRefModel struct {
	ServiceID  int64 `json:"serviceId"`
	ProviderID int64 `json:"providerId"`
}

// FilterRequest HTTP request model: упорядоченный список кандидатов
type FilterRequest struct {
	Candidates []ServiceRefModel `json:"candidates"`
}

// FilterResponse HTTP response model: кандидаты, прошедшие фильтр,
// в исходном порядке
type FilterResponse struct {
	Services []ServiceRefModel `json:"services"`
}

// ToDomainRefs конвертирует HTTP модель в доменные ссылки
func (r *FilterRequest) ToDomainRefs() []domain.ServiceRef {
	refs := make([]domain.ServiceRef, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		refs = append(refs, domain.ServiceRef{
			ServiceID:  c.ServiceID,
			ProviderID: c.ProviderID,
		})
	}
	return refs
}

// FromDomainRefs конвертирует доменные ссылки в HTTP response
func FromDomainRefs(refs []domain.ServiceRef) *FilterResponse {
	services := make([]ServiceRefModel, 0, len(refs))
	for _, ref := range refs {
		services = append(services, ServiceRefModel{
			ServiceID:  ref.ServiceID,
			ProviderID: ref.ProviderID,
		})
	}
	return &FilterResponse{Services: services}
}
