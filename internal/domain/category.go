package domain

// Category категория каталога услуг
type Category struct {
	ID   int64
	Name string
}

// Subcategory подкатегория, принадлежащая категории
type Subcategory struct {
	ID         int64
	CategoryID int64
	Name       string
}
