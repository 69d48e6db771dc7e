package workflow

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/cache"
	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/mq"
	"github.com/cinehall/booking/internal/service/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ShowingStatusWorkflow consumes booking events and keeps the showing
// lifecycle and the read-side cache in step with the inventory:
// ALMOST_FULL and HOUSEFULL escalation happens here, off the booking
// hot path.
type ShowingStatusWorkflow struct {
	cache          *cache.RedisCache
	inv            *inventory.Inventory
	showingService domain.ShowingService
	logger         *zap.SugaredLogger
}

func NewShowingStatusWorkflow(redisCache *cache.RedisCache, inv *inventory.Inventory,
	showingService domain.ShowingService, logger *zap.SugaredLogger) *ShowingStatusWorkflow {
	return &ShowingStatusWorkflow{
		cache:          redisCache,
		inv:            inv,
		showingService: showingService,
		logger:         logger,
	}
}

func (w *ShowingStatusWorkflow) Start(mqConn *amqp.Connection) error {
	if err := w.consumeConfirmed(mqConn); err != nil {
		return err
	}
	return w.consumeCancelled(mqConn)
}

func (w *ShowingStatusWorkflow) consumeConfirmed(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleConfirmed(msg); err != nil {
				w.logger.Errorw("failed to handle booking confirmed event", "error", err)
			}
		}
	}()

	return nil
}

func (w *ShowingStatusWorkflow) handleConfirmed(msg amqp.Delivery) error {
	var message mq.BookingConfirmedMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	if err := w.refresh(message.ShowingID, -message.Seats); err != nil {
		msg.Nack(false, true)
		return err
	}

	msg.Ack(false)
	return nil
}

func (w *ShowingStatusWorkflow) consumeCancelled(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleCancelled(msg); err != nil {
				w.logger.Errorw("failed to handle booking cancelled event", "error", err)
			}
		}
	}()

	return nil
}

func (w *ShowingStatusWorkflow) handleCancelled(msg amqp.Delivery) error {
	var message mq.BookingCancelledMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	if err := w.refresh(message.ShowingID, message.Seats); err != nil {
		msg.Nack(false, true)
		return err
	}

	msg.Ack(false)
	return nil
}

// refresh applies the seat delta to the cached counter, drops the stale
// seat map and recomputes the showing status from the live inventory.
func (w *ShowingStatusWorkflow) refresh(showingID uint, delta int) error {
	if err := w.cache.AdjustAvailable(showingID, delta); err != nil {
		w.logger.Warnw("failed to adjust cached availability", "showing_id", showingID, "error", err)
	}
	if err := w.cache.InvalidateSeatMap(showingID); err != nil {
		w.logger.Warnw("failed to invalidate seat map", "showing_id", showingID, "error", err)
	}

	available, err := w.inv.Available(showingID)
	if err != nil {
		return err
	}
	status, err := w.showingService.RefreshStatus(showingID, available)
	if err != nil {
		return err
	}
	w.logger.Infow("showing status refreshed",
		"showing_id", showingID, "available", available, "status", status)
	return nil
}
