package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	bookingsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/bookings"
)

// UseCase use case отмены подтверждённого бронирования.
// Отмена возвращает единицу вместимости слота: запись бронирования
// удаляется и current_bookings уменьшается в одной транзакции.
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	invalidator AvailabilityInvalidator
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	invalidator AvailabilityInvalidator,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		invalidator: invalidator,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CancelBooking: booking=%d, holder=%d", req.BookingID, req.HolderID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.HolderID <= 0 {
		uc.logger.Warn("CancelBooking: invalid input: booking=%d, holder=%d", req.BookingID, req.HolderID)
		return ErrInvalidInput
	}

	var providerID int64

	// 2. Удаление записи и возврат вместимости в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Загружаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingsRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2.2. Отменять может только владелец бронирования
		if booking.HolderID != req.HolderID {
			uc.logger.Warn("CancelBooking: booking id=%d owned by holder=%d, requested by holder=%d",
				booking.ID, booking.HolderID, req.HolderID)
			return ErrBookingNotOwned
		}

		providerID = booking.ProviderID

		if err := uc.bookingRepo.Delete(txCtx, booking.ID); err != nil {
			uc.logger.Error("CancelBooking: failed to delete booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to delete booking: %v", ErrInternal, err)
		}

		// 2.3. Возвращаем единицу вместимости; ниже нуля счётчик не уходит
		if err := uc.slotRepo.DecrementOccupancy(txCtx, booking.SlotID); err != nil {
			uc.logger.Error("CancelBooking: failed to decrement occupancy slot=%d: %v", booking.SlotID, err)
			return fmt.Errorf("%w: failed to decrement occupancy: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	// 3. Освободившаяся вместимость должна стать видимой каталогу
	uc.invalidator.InvalidateProvider(ctx, providerID)
	uc.metrics.IncBookingCancelled()

	uc.logger.Info("CancelBooking: booking id=%d cancelled", req.BookingID)

	return nil
}
