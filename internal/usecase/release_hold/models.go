package release_hold

// Request модель запроса на освобождение холда
type Request struct {
	HoldID   string // ID холда
	HolderID int64  // Идентификатор держателя
}

// Response результат освобождения.
// Released=true только при фактическом переходе active -> released;
// повторный вызов по тому же холду идемпотентно возвращает false.
type Response struct {
	Released bool
}
