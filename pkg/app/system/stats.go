package system

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/domain/document"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
	"github.com/ragstack/ragserver/pkg/domain/storage"
)

type Stats struct {
	DocumentsByStatus map[document.Status]int64 `json:"documents_by_status"`
	IndexedChunks     int64                     `json:"indexed_chunks"`
	DataLake          []storage.ZoneStats       `json:"data_lake"`
}

//go:generate mockery --name=StatsProvider --dir=. --output=./mocks --filename=stats_provider_mock.go --case=underscore --with-expecter

type StatsProvider interface {
	Collect(ctx context.Context) (*Stats, error)
}

type statsProvider struct {
	documents  document.Repository
	vectorRepo embedding.VectorRepository
	lake       storage.DataLake
	logger     *logrus.Logger
}

func NewStatsProvider(
	documents document.Repository,
	vectorRepo embedding.VectorRepository,
	lake storage.DataLake,
	logger *logrus.Logger,
) StatsProvider {
	return &statsProvider{
		documents:  documents,
		vectorRepo: vectorRepo,
		lake:       lake,
		logger:     logger,
	}
}

// Collect gathers corpus counters. Data lake stats are best effort; a storage
// outage should not hide document counts.
func (s *statsProvider) Collect(ctx context.Context) (*Stats, error) {
	byStatus, err := s.documents.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	chunks, err := s.vectorRepo.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to count indexed chunks")
	}

	zones, err := s.lake.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to collect data lake stats")
	}

	return &Stats{
		DocumentsByStatus: byStatus,
		IndexedChunks:     chunks,
		DataLake:          zones,
	}, nil
}
