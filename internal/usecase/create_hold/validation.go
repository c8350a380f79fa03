package create_hold

import "fmt"

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.HolderID <= 0 {
		return fmt.Errorf("%w: holderId must be positive", ErrInvalidInput)
	}
	if !req.PolicyClass.IsValid() {
		return fmt.Errorf("%w: unknown policy class %q", ErrInvalidInput, req.PolicyClass)
	}
	return nil
}
