package calendar

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных слота
	ErrInvalidInput = errors.New("calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)
