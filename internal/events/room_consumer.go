package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/roomfinder/service-booking/internal/application"
	sharedEvents "github.com/roomfinder/service-booking/internal/pkg/events"
	"github.com/roomfinder/service-booking/internal/pkg/kafka"
)

// RoomEventConsumer listens to room listing events and keeps bookings
// consistent with the listing state.
type RoomEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewRoomEventConsumer creates a new RoomEventConsumer.
func NewRoomEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *RoomEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, sharedEvents.TopicRoomEvents, logger)
	return &RoomEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming room events. This blocks until the context is cancelled.
func (c *RoomEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RoomEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RoomEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from room topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case sharedEvents.RoomDelisted:
		return c.handleRoomDelisted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled room event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *RoomEventConsumer) handleRoomDelisted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt sharedEvents.RoomDelistedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RoomDelistedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing room delisted event",
		zap.Int64("room_id", evt.RoomID),
	)

	rejected, err := c.service.RejectPendingForRoom(ctx, evt.RoomID)
	if err != nil {
		c.logger.Error("failed to reject pending bookings for delisted room",
			zap.Int64("room_id", evt.RoomID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("pending bookings rejected for delisted room",
		zap.Int64("room_id", evt.RoomID),
		zap.Int("rejected", rejected),
	)
	return nil
}
