package release_hold

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_hold: invalid input data")

	// ErrHoldNotOwned возвращается при попытке отпустить чужой холд
	ErrHoldNotOwned = errors.New("release_hold: hold is owned by another holder")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_hold: internal error")
)
