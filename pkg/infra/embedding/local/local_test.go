package local_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/ragserver/pkg/infra/embedding/local"
)

func TestGenerate_DeterministicUnitVector(t *testing.T) {
	svc := local.NewLocalEmbeddingService(64)

	first, err := svc.Generate(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Len(t, first.Value, 64)

	var norm float64
	for _, v := range first.Value {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestGenerate_DifferentTextsDiffer(t *testing.T) {
	svc := local.NewLocalEmbeddingService(64)

	a, err := svc.Generate(context.Background(), "alpha beta gamma")
	require.NoError(t, err)
	b, err := svc.Generate(context.Background(), "delta epsilon zeta")
	require.NoError(t, err)

	assert.NotEqual(t, a.Value, b.Value)
}

func TestGenerate_CancelledContext(t *testing.T) {
	svc := local.NewLocalEmbeddingService(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, "anything")
	assert.Error(t, err)
}

func TestDimensionAndModelInfo(t *testing.T) {
	svc := local.NewLocalEmbeddingService(128)

	assert.Equal(t, 128, svc.Dimension())
	assert.Equal(t, "local", svc.ModelInfo()["provider"])
}
