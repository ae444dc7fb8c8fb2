package storage

import (
	"context"
	"io"
	"time"
)

// Zone identifies a layer of the data lake. Raw holds source payloads exactly
// as uploaded, Processed holds normalized text after chunking, Curated holds
// promoted content ready for downstream consumers.
type Zone string

const (
	ZoneRaw       Zone = "raw"
	ZoneProcessed Zone = "processed"
	ZoneCurated   Zone = "curated"
)

var Zones = []Zone{ZoneRaw, ZoneProcessed, ZoneCurated}

func (z Zone) Valid() bool {
	switch z {
	case ZoneRaw, ZoneProcessed, ZoneCurated:
		return true
	}
	return false
}

type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key          string
	Zone         Zone
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

type ZoneStats struct {
	Zone        Zone  `json:"zone"`
	ObjectCount int64 `json:"object_count"`
	TotalBytes  int64 `json:"total_bytes"`
}

//go:generate mockery --name=DataLake --dir=. --output=./mocks --filename=data_lake_mock.go --case=underscore --with-expecter

// DataLake is a zoned object store over an S3-compatible backend. All methods
// stream; nothing touches local disk.
type DataLake interface {
	Put(ctx context.Context, zone Zone, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, zone Zone, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, zone Zone, key string) error
	List(ctx context.Context, zone Zone, prefix string) ([]ObjectInfo, error)
	Promote(ctx context.Context, from, to Zone, key string) (ObjectInfo, error)
	Stats(ctx context.Context) ([]ZoneStats, error)
	Ping(ctx context.Context) error
}
