package cancel_booking

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64 // ID бронирования
	HolderID  int64 // Идентификатор держателя
}
