package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	kafka_config "dinehall/pkg/kafka/config"

	"github.com/segmentio/kafka-go"
)

// Consumer wraps a kafka-go reader in a fetch-process-commit loop with
// bounded retries and a dead-letter fallback.
type Consumer struct {
	reader     *kafka.Reader
	dlqWriter  *kafka.Writer
	topic      string
	groupID    string
	maxRetries int
	handler    MessageHandler
	closed     bool
	mu         sync.RWMutex
}

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler MessageHandler) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	consumer := &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       cfg.ConsumerMinBytes,
			MaxBytes:       cfg.ConsumerMaxBytes,
			MaxWait:        cfg.ConsumerMaxWait,
			CommitInterval: cfg.ConsumerCommitInterval,
			StartOffset:    cfg.ConsumerStartOffset,
			Logger:         kafka.LoggerFunc(func(msg string, args ...any) {}),
			ErrorLogger:    kafka.LoggerFunc(log.Printf),
		}),
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		handler:    handler,
	}

	if dlqTopic != "" {
		consumer.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
			ErrorLogger:  kafka.LoggerFunc(log.Printf),
		}
	}

	return consumer, nil
}

// Start consumes until ctx is cancelled. Failed messages are retried up to
// the configured maximum, then shipped to the DLQ; either way the offset is
// committed so one poison message cannot wedge the partition.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	c.mu.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Printf("kafka consumer: fetch failed: %v", err)
			time.Sleep(1 * time.Second)
			continue
		}

		msg := c.convertMessage(kafkaMsg)
		if err := c.process(ctx, msg); err != nil {
			log.Printf("kafka consumer: message %s failed after retries: %v", msg.GetEventID(), err)
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			log.Printf("kafka consumer: commit failed: %v", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg Message) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		if err = c.handler(ctx, msg); err == nil {
			return nil
		}
	}

	if c.dlqWriter != nil {
		msg.Headers[HeaderOriginalTopic] = c.topic
		msg.Headers[HeaderError] = err.Error()
		msg.Headers[HeaderRetryCount] = strconv.Itoa(c.maxRetries)
		if dlqErr := c.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg)); dlqErr != nil {
			return fmt.Errorf("DLQ write failed: %v (original error: %v)", dlqErr, err)
		}
	}
	return err
}

func (c *Consumer) convertMessage(kafkaMsg kafka.Message) Message {
	msg := Message{
		Key:       string(kafkaMsg.Key),
		Value:     kafkaMsg.Value,
		Headers:   make(map[string]string, len(kafkaMsg.Headers)),
		Topic:     kafkaMsg.Topic,
		Partition: kafkaMsg.Partition,
		Offset:    kafkaMsg.Offset,
		Timestamp: kafkaMsg.Time,
	}
	for _, header := range kafkaMsg.Headers {
		msg.Headers[header.Key] = string(header.Value)
	}
	return msg
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := c.reader.Close()
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
