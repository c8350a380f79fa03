package register_service

import "time"

// Request модель запроса на регистрацию услуги
type Request struct {
	ServiceID     int64 // ID услуги (задаётся загрузчиком каталога)
	ProviderID    int64 // ID поставщика
	CategoryID    int64 // ID категории
	SubcategoryID int64 // ID подкатегории

	IsAvailable           bool // Услуга видима и принимает брони
	HasCalendar           bool // Доступность зависит от календарных слотов
	MaxConcurrentBookings int  // Предел одновременных броней
}

// Response зарегистрированная услуга
type Response struct {
	ServiceID     int64
	ProviderID    int64
	CategoryID    int64
	SubcategoryID int64

	IsAvailable           bool
	HasCalendar           bool
	MaxConcurrentBookings int

	CreatedAt time.Time
	UpdatedAt time.Time
}
