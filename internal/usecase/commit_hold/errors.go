package commit_hold

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("commit_hold: invalid input data")

	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("commit_hold: hold not found")

	// ErrHoldNotOwned возвращается при попытке закоммитить чужой холд.
	// Повторяющиеся случаи — баг вызывающей стороны, логируются как warning.
	ErrHoldNotOwned = errors.New("commit_hold: hold is owned by another holder")

	// ErrHoldExpired возвращается, когда холд просрочен или уже в
	// терминальном статусе; вызывающий возвращается к поиску
	ErrHoldExpired = errors.New("commit_hold: hold is expired or no longer active")

	// ErrCapacityViolated возвращается, когда защитная проверка вместимости
	// сработала при коммите: слот заполнен, хотя холд резервировал единицу.
	// Это дефект внутренней согласованности — коммит прерывается,
	// перебронирование невозможно; ошибка не ретраится, а расследуется.
	ErrCapacityViolated = errors.New("commit_hold: slot capacity violated")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("commit_hold: internal error")
)
