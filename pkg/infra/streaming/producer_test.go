package streaming

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitDelivery_SuccessfulReport(t *testing.T) {
	ch := newDeliveryChan()
	ch <- &kafka.Message{}

	assert.NoError(t, awaitDelivery(context.Background(), ch))
}

func TestAwaitDelivery_FailedReport(t *testing.T) {
	ch := newDeliveryChan()
	ch <- &kafka.Message{
		TopicPartition: kafka.TopicPartition{Error: errors.New("broker unreachable")},
	}

	err := awaitDelivery(context.Background(), ch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery failed")
}

func TestAwaitDelivery_AbandonedWaitAcceptsLateReport(t *testing.T) {
	ch := newDeliveryChan()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, awaitDelivery(ctx, ch), context.Canceled)

	// the delivery goroutine must still be able to hand off its report
	done := make(chan struct{})
	go func() {
		ch <- &kafka.Message{}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("late delivery report blocked")
	}
}
