package events

import (
	"context"
	"fmt"

	"dinehall/pkg/kafka"
	kafka_config "dinehall/pkg/kafka/config"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"
)

// Producer publishes reservation lifecycle events. Messages are keyed by
// room so all events of one room land on the same partition in order.
type Producer struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewProducer(kafkaCfg *kafka_config.Config, topic, dlqTopic string, log *logger.Logger) (*Producer, error) {
	producer, err := kafka.NewProducer(kafkaCfg, topic, dlqTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation event producer: %w", err)
	}

	log.Info("Reservation event producer initialized", "topic", topic)
	return &Producer{
		producer: producer,
		log:      log,
	}, nil
}

func (p *Producer) PublishReservationConfirmed(ctx context.Context, view model.ReservationView) error {
	msg := kafka.NewMessage().
		WithKey(view.RoomID).
		WithEventType(EventReservationConfirmed).
		WithSource(Source).
		WithValue(view).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", EventReservationConfirmed, err)
	}

	p.log.Info("Reservation event published",
		"event_type", EventReservationConfirmed,
		"reservation_id", view.ID,
		"room_id", view.RoomID,
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
