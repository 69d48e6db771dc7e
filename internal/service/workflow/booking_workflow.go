package workflow

import (
	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/mq"
	"github.com/cinehall/booking/internal/service/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingWorkflow wraps the booking service and publishes lifecycle
// events after each committed transaction. Publishing failures are
// logged, never surfaced: the booking already committed and the
// lifecycle consumer is a display concern.
type BookingWorkflow struct {
	BookingService domain.BookingService
	MQConn         *amqp.Connection
	Logger         *zap.SugaredLogger
}

func NewBookingWorkflow(bookingService domain.BookingService, mqConn *amqp.Connection, logger *zap.SugaredLogger) *BookingWorkflow {
	return &BookingWorkflow{
		BookingService: bookingService,
		MQConn:         mqConn,
		Logger:         logger,
	}
}

func (w *BookingWorkflow) Book(req domain.BookRequest) (*domain.BookingResult, error) {
	result, err := w.BookingService.Book(req)
	if err != nil {
		return nil, err
	}

	w.publish(mq.BookingConfirmedQueue, mq.BookingConfirmedMessage{
		Reference: result.Booking.Reference,
		ShowingID: result.Booking.ShowingID,
		Seats:     result.Booking.NumberOfSeats,
	})
	return result, nil
}

func (w *BookingWorkflow) GetByReference(reference string) (*domain.BookingResult, error) {
	return w.BookingService.GetByReference(reference)
}

func (w *BookingWorkflow) Cancel(reference string) (*domain.BookingResult, error) {
	result, err := w.BookingService.Cancel(reference)
	if err != nil {
		return nil, err
	}

	w.publish(mq.BookingCancelledQueue, mq.BookingCancelledMessage{
		Reference: result.Booking.Reference,
		ShowingID: result.Booking.ShowingID,
		Seats:     result.Booking.NumberOfSeats,
	})
	return result, nil
}

func (w *BookingWorkflow) publish(queue string, message any) {
	if w.MQConn == nil {
		return
	}
	ch, err := mq.NewChannel(w.MQConn)
	if err != nil {
		w.Logger.Errorw("failed to open mq channel", "queue", queue, "error", err)
		return
	}
	defer ch.Close()

	if err := mq.SendImmediateMessage(ch, queue, message); err != nil {
		w.Logger.Errorw("failed to publish booking event", "queue", queue, "error", err)
	}
}
