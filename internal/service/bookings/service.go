package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	bookingsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/bookings"
)

// Service сервис чтения подтверждённых бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID возвращает бронирование по ID.
// Бронирование видно только его держателю.
func (s *Service) GetByID(ctx context.Context, bookingID, holderID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.HolderID != holderID {
		s.logger.Warn("GetByID: booking id=%d belongs to holder=%d, requested by holder=%d",
			booking.ID, booking.HolderID, holderID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
