package register_service

import (
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// validateRequest проверяет корректность запроса на регистрацию услуги
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	if req.CategoryID <= 0 {
		return fmt.Errorf("%w: category id must be positive", ErrInvalidInput)
	}

	if req.SubcategoryID <= 0 {
		return fmt.Errorf("%w: subcategory id must be positive", ErrInvalidInput)
	}

	if req.MaxConcurrentBookings < domain.MinConcurrentBookings || req.MaxConcurrentBookings > domain.MaxConcurrentBookings {
		return fmt.Errorf("%w: max concurrent bookings must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentBookings, domain.MaxConcurrentBookings)
	}

	return nil
}
