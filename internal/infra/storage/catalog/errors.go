package catalog

import "errors"

var (
	// ErrProviderNotFound возвращается, когда поставщик не найден
	ErrProviderNotFound = errors.New("catalog.repository: provider not found")

	// ErrSubcategoryNotFound возвращается, когда подкатегория не найдена
	ErrSubcategoryNotFound = errors.New("catalog.repository: subcategory not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
