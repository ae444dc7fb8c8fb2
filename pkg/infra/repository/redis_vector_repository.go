package repository

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/domain/chunk"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
)

const chunkKeyPrefix = "chunk:"

// redisVectorRepository stores chunk embeddings as RediSearch HASH documents
// with a FLAT FLOAT32 COSINE vector field and serves KNN similarity queries.
type redisVectorRepository struct {
	client    *redis.Client
	logger    *logrus.Logger
	indexName string
	dimension int
}

func NewRedisVectorRepository(
	client *redis.Client,
	logger *logrus.Logger,
	indexName string,
	dimension int,
) embedding.VectorRepository {
	return &redisVectorRepository{
		client:    client,
		logger:    logger,
		indexName: indexName,
		dimension: dimension,
	}
}

// EnsureIndex creates the vector index if it does not exist yet. Unlike a
// drop-and-recreate, an existing index is left alone so chunks survive
// restarts.
func (r *redisVectorRepository) EnsureIndex(ctx context.Context) error {
	err := r.client.Do(ctx, "FT.INFO", r.indexName).Err()
	if err == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unknown index") {
		return fmt.Errorf("failed to inspect vector index %s: %w", r.indexName, err)
	}

	args := []interface{}{
		"FT.CREATE", r.indexName,
		"ON", "HASH",
		"PREFIX", "1", chunkKeyPrefix,
		"SCHEMA",
		"doc", "TAG", "SEPARATOR", ",",
		"tags", "TAG", "SEPARATOR", "|",
		"content", "TEXT",
		"embedding", "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(r.dimension),
		"DISTANCE_METRIC", "COSINE",
	}

	if err := r.client.Do(ctx, args...).Err(); err != nil {
		r.logger.WithError(err).Errorf("failed to create vector index: %s", r.indexName)
		return err
	}

	r.logger.Infof("vector index created successfully: %s", r.indexName)
	return nil
}

func (r *redisVectorRepository) Insert(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, c := range chunks {
		if len(c.Embedding) != r.dimension {
			return fmt.Errorf("chunk %s: embedding dimension %d does not match index dimension %d",
				c.ID, len(c.Embedding), r.dimension)
		}
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("chunk %s: failed to marshal metadata: %w", c.ID, err)
		}
		fields := map[string]interface{}{
			"doc":         hashTag(c.DocumentID),
			"document_id": c.DocumentID,
			"chunk_index": c.Index,
			"content":     c.Content,
			"metadata":    string(meta),
			"tags":        tagField(c.Metadata),
			"embedding":   encodeVector(c.Embedding),
		}
		pipe.HSet(ctx, chunkKeyPrefix+c.ID, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

func (r *redisVectorRepository) Search(
	ctx context.Context,
	query *embedding.Embedding,
	opts embedding.SearchOptions,
) ([]embedding.SearchResult, error) {
	if len(query.Value) != r.dimension {
		return nil, fmt.Errorf("query embedding dimension %d does not match index dimension %d",
			len(query.Value), r.dimension)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	expr := buildFilterExpression(opts)
	knn := fmt.Sprintf("%s=>[KNN %d @embedding $BLOB AS score]", expr, limit)

	args := []interface{}{
		"FT.SEARCH", r.indexName, knn,
		"PARAMS", "2", "BLOB", encodeVector(query.Value),
		"SORTBY", "score", "ASC",
		"RETURN", "5", "document_id", "chunk_index", "content", "metadata", "score",
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	}

	raw, err := r.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	hits, err := parseSearchReply(raw)
	if err != nil {
		return nil, err
	}

	results := make([]embedding.SearchResult, 0, len(hits))
	for _, hit := range hits {
		// RediSearch reports cosine distance; convert to similarity.
		similarity := 1 - hit.distance
		if similarity < opts.Threshold {
			continue
		}
		results = append(results, embedding.SearchResult{
			Key:        strings.TrimPrefix(hit.key, chunkKeyPrefix),
			DocumentID: hit.fields["document_id"],
			ChunkIndex: atoiOrZero(hit.fields["chunk_index"]),
			Content:    hit.fields["content"],
			Score:      similarity,
			Metadata:   decodeMetadata(hit.fields["metadata"]),
		})
	}
	return results, nil
}

func (r *redisVectorRepository) DeleteByDocumentID(ctx context.Context, documentID string) (int, error) {
	pattern := chunkKeyPrefix + documentID + ":*"
	var deleted int
	var cursor uint64
	for {
		keys, nextCursor, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("error scanning chunk keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("error deleting chunk keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (r *redisVectorRepository) Count(ctx context.Context) (int64, error) {
	raw, err := r.client.Do(ctx, "FT.INFO", r.indexName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get index info: %w", err)
	}
	reply, ok := raw.([]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected FT.INFO reply type %T", raw)
	}
	for i := 0; i+1 < len(reply); i += 2 {
		name, ok := reply[i].(string)
		if !ok || name != "num_docs" {
			continue
		}
		switch v := reply[i+1].(type) {
		case string:
			n, _ := strconv.ParseInt(v, 10, 64)
			return n, nil
		case int64:
			return v, nil
		}
	}
	return 0, nil
}

// buildFilterExpression assembles the RediSearch prefilter in front of the KNN
// clause: "*" when unfiltered, TAG matches otherwise.
func buildFilterExpression(opts embedding.SearchOptions) string {
	var parts []string
	if opts.DocumentID != "" {
		parts = append(parts, fmt.Sprintf("@doc:{%s}", hashTag(opts.DocumentID)))
	}
	if len(opts.Tags) > 0 {
		escaped := make([]string, 0, len(opts.Tags))
		for _, t := range opts.Tags {
			escaped = append(escaped, hashTag(t))
		}
		parts = append(parts, fmt.Sprintf("@tags:{%s}", strings.Join(escaped, "|")))
	}
	if len(parts) == 0 {
		return "*"
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// hashTag makes an arbitrary value safe for a TAG field. UUIDs and user tags
// can contain characters the query syntax reserves, so both sides store and
// query the sha256 hex of the value.
func hashTag(value string) string {
	h := sha256.New()
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

func tagField(metadata map[string]interface{}) string {
	raw, ok := metadata["tags"]
	if !ok {
		return ""
	}
	tags, ok := raw.([]string)
	if !ok {
		return ""
	}
	hashed := make([]string, 0, len(tags))
	for _, t := range tags {
		hashed = append(hashed, hashTag(t))
	}
	return strings.Join(hashed, "|")
}

// encodeVector serializes an embedding as the little-endian float32 blob the
// FLOAT32 vector field expects.
func encodeVector(values []float64) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return buf
}

type searchHit struct {
	key      string
	distance float64
	fields   map[string]string
}

// parseSearchReply unpacks the RESP2 FT.SEARCH reply:
// [total, key1, [field, value, ...], key2, [...], ...].
func parseSearchReply(raw interface{}) ([]searchHit, error) {
	reply, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected search reply type %T", raw)
	}
	if len(reply) == 0 {
		return nil, nil
	}

	var hits []searchHit
	for i := 1; i+1 < len(reply); i += 2 {
		key, ok := reply[i].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected search reply key type %T", reply[i])
		}
		rawFields, ok := reply[i+1].([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected search reply fields type %T", reply[i+1])
		}
		hit := searchHit{key: key, fields: make(map[string]string, len(rawFields)/2)}
		for j := 0; j+1 < len(rawFields); j += 2 {
			name, _ := rawFields[j].(string)
			value, _ := rawFields[j+1].(string)
			if name == "score" {
				hit.distance, _ = strconv.ParseFloat(value, 64)
				continue
			}
			hit.fields[name] = value
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func decodeMetadata(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return meta
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
