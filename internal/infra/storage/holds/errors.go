package holds

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("holds.repository: hold not found")

	// ErrStatusConflict возвращается, когда переход статуса невозможен
	// (холд уже в терминальном состоянии)
	ErrStatusConflict = errors.New("holds.repository: hold status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("holds.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("holds.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("holds.repository: failed to scan row")
)
