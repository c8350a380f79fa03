package register_service

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("register_service: invalid input data")

	// ErrCategoryNotFound возвращается, когда категория не существует
	ErrCategoryNotFound = errors.New("register_service: category not found")

	// ErrSubcategoryNotFound возвращается, когда подкатегория не существует
	ErrSubcategoryNotFound = errors.New("register_service: subcategory not found")

	// ErrSubcategoryMismatch возвращается, когда подкатегория принадлежит
	// другой категории
	ErrSubcategoryMismatch = errors.New("register_service: subcategory does not belong to category")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("register_service: internal error")
)
