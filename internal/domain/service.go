package domain

import "time"

// Service услуга поставщика с политикой доступности.
// Политика регистрируется загрузчиком данных (идемпотентный upsert).
type Service struct {
	ID                    int64
	ProviderID            int64
	CategoryID            int64
	SubcategoryID         int64
	RequiresCalendar      bool
	MaxConcurrentBookings int
	IsVisible             bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityPolicy политика доступности, передаваемая при регистрации услуги
type AvailabilityPolicy struct {
	IsAvailable           bool
	HasCalendar           bool
	MaxConcurrentBookings int
}

// IsBookable returns true if the service may be offered for booking at all
func (s *Service) IsBookable() bool {
	return s.IsVisible
}

// NeedsSlotCheck returns true if availability additionally depends on calendar slots
func (s *Service) NeedsSlotCheck() bool {
	return s.RequiresCalendar
}

// ServiceRef ссылка (serviceId, providerId), которой оперируют каталог и фильтр
type ServiceRef struct {
	ServiceID  int64
	ProviderID int64
}
