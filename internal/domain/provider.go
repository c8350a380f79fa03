package domain

import "time"

// Provider поставщик услуг (исполнитель, кейтеринг, площадка).
// Создается внешним онбордингом, никогда не удаляется — только деактивируется.
type Provider struct {
	ID             int64
	IsVerified     bool
	IsActive       bool
	ServiceAreas   []string
	SubcategoryIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAcceptBookings returns true if the provider may appear in booking flows
func (p *Provider) CanAcceptBookings() bool {
	return p.IsActive
}
