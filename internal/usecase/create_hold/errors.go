package create_hold

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	// или принадлежит другому поставщику
	ErrServiceNotFound = errors.New("create_hold: service not found")

	// ErrServiceNotBookable возвращается, когда услуга скрыта из каталога
	ErrServiceNotBookable = errors.New("create_hold: service is not bookable")

	// ErrServiceWithoutCalendar возвращается, когда услуга не календарная:
	// холды выдаются только против слотов
	ErrServiceWithoutCalendar = errors.New("create_hold: service does not use calendar slots")

	// ErrNoSpareCapacity возвращается, когда ни у одного будущего слота нет
	// свободной вместимости. Это ожидаемый исход под конкуренцией, а не сбой:
	// вызывающий возвращает покупателя к поиску.
	ErrNoSpareCapacity = errors.New("create_hold: no spare capacity")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
