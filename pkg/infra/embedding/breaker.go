package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	domain "github.com/ragstack/ragserver/pkg/domain/embedding"
)

const (
	breakerMaxRequests         = 5
	breakerOpenTimeout         = 30 * time.Second
	breakerConsecutiveFailures = 5
)

// breakerCreator shields the embedding provider behind a circuit breaker so a
// failing upstream trips fast instead of stalling every query and ingest.
type breakerCreator struct {
	inner   domain.Creator
	breaker *gobreaker.CircuitBreaker
}

func WithCircuitBreaker(name string, inner domain.Creator) domain.Creator {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
	}
	return &breakerCreator{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerCreator) Generate(ctx context.Context, text string) (*domain.Embedding, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("embedding breaker (%s): %w", b.breaker.Name(), err)
	}
	emb, ok := result.(*domain.Embedding)
	if !ok {
		return nil, fmt.Errorf("embedding breaker (%s): unexpected result type %T", b.breaker.Name(), result)
	}
	return emb, nil
}

func (b *breakerCreator) Dimension() int {
	return b.inner.Dimension()
}

func (b *breakerCreator) ModelInfo() map[string]string {
	return b.inner.ModelInfo()
}
