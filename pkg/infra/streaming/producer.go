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

//go:generate mockery --name=Publisher --dir=. --output=./mocks --filename=publisher_mock.go --case=underscore --with-expecter

// Publisher emits document lifecycle events. Messages are keyed by document ID
// so updates for one document stay ordered within a partition.
type Publisher interface {
	Publish(ctx context.Context, topic string, event streaming.DocumentEvent) error
	Close()
}

type kafkaPublisher struct {
	producer *kafka.Producer
	logger   *logrus.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *logrus.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &kafkaPublisher{producer: producer, logger: logger}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic string, event streaming.DocumentEvent) error {
	if p.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	deliveryChan := newDeliveryChan()

	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.DocumentID),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return awaitDelivery(ctx, deliveryChan)
}

// newDeliveryChan is buffered so an abandoned wait never blocks the producer's
// delivery goroutine.
func newDeliveryChan() chan kafka.Event {
	return make(chan kafka.Event, 1)
}

func awaitDelivery(ctx context.Context, deliveryChan chan kafka.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event type %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	}
	return nil
}

func (p *kafkaPublisher) Close() {
	if p.producer != nil {
		p.producer.Flush(5000)
		p.producer.Close()
	}
}
