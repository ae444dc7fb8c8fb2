package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/config"
	"github.com/ragstack/ragserver/pkg/domain/streaming"
)

const pollTimeout = time.Second

// EventHandler reacts to document lifecycle events pulled off the stream.
type EventHandler interface {
	HandleDocumentCreated(ctx context.Context, event streaming.DocumentEvent) error
	HandleDocumentUpdated(ctx context.Context, event streaming.DocumentEvent) error
	HandleDocumentDeleted(ctx context.Context, event streaming.DocumentEvent) error
	HandleMetadataUpdated(ctx context.Context, event streaming.DocumentEvent) error
}

// Consumer runs the document-processor group over the lifecycle topics. A
// malformed or failing message is logged and skipped; the loop never dies on
// a single bad event.
type Consumer struct {
	consumer *kafka.Consumer
	handler  EventHandler
	logger   *logrus.Logger
}

func NewKafkaConsumer(cfg config.KafkaConfig, handler EventHandler, logger *logrus.Logger) (*Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		"group.id":          cfg.GroupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	return &Consumer{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled, dispatching each message to the handler.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.consumer.SubscribeTopics(streaming.Topics(), nil); err != nil {
		return fmt.Errorf("failed to subscribe to topics: %w", err)
	}

	c.logger.WithField("topics", streaming.Topics()).Info("document event consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("document event consumer stopping")
			return c.consumer.Close()
		default:
		}

		msg, err := c.consumer.ReadMessage(pollTimeout)
		if err != nil {
			var kafkaErr kafka.Error
			if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrTimedOut {
				continue
			}
			c.logger.WithError(err).Error("error reading message from kafka")
			continue
		}

		c.dispatch(ctx, msg)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg *kafka.Message) {
	topic := ""
	if msg.TopicPartition.Topic != nil {
		topic = *msg.TopicPartition.Topic
	}

	var event streaming.DocumentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WithError(err).WithField("topic", topic).Error("skipping malformed document event")
		return
	}
	if event.DocumentID == "" {
		c.logger.WithField("topic", topic).Error("skipping document event with empty document_id")
		return
	}

	var err error
	switch topic {
	case streaming.TopicDocuments:
		err = c.handler.HandleDocumentCreated(ctx, event)
	case streaming.TopicUpdates:
		err = c.handler.HandleDocumentUpdated(ctx, event)
	case streaming.TopicDeletions:
		err = c.handler.HandleDocumentDeleted(ctx, event)
	case streaming.TopicMetadataUpdates:
		err = c.handler.HandleMetadataUpdated(ctx, event)
	default:
		c.logger.WithField("topic", topic).Warn("message from unexpected topic")
		return
	}

	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"topic":       topic,
			"document_id": event.DocumentID,
			"event_type":  event.EventType,
		}).Error("failed to handle document event")
	}
}
