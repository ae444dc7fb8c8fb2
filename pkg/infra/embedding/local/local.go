package local

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/ragstack/ragserver/pkg/domain/embedding"
)

// embeddingService produces deterministic embeddings without an external
// provider. Each token is hashed into a handful of vector positions, so equal
// texts always map to the same unit vector and related texts overlap. Useful
// for development and air-gapped deployments, not for production relevance.
type embeddingService struct {
	dimension int
}

func NewLocalEmbeddingService(dimension int) embedding.Creator {
	return &embeddingService{dimension: dimension}
}

func (s *embeddingService) Generate(ctx context.Context, text string) (*embedding.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	val := make([]float64, s.dimension)
	for _, token := range tokenize(text) {
		sum := sha256.Sum256([]byte(token))
		for i := 0; i < 4; i++ {
			idx := binary.LittleEndian.Uint32(sum[i*8:]) % uint32(s.dimension)
			weight := 1.0
			if sum[i*8+4]%2 == 0 {
				weight = -1.0
			}
			val[idx] += weight
		}
	}

	normalize(val)

	return &embedding.Embedding{
		Value:     val,
		CreatedAt: time.Now(),
	}, nil
}

func (s *embeddingService) Dimension() int {
	return s.dimension
}

func (s *embeddingService) ModelInfo() map[string]string {
	return map[string]string{
		"provider": "local",
		"model":    "hashed-bow",
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(v []float64) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += val * val
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
