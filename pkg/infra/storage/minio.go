package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ragstack/ragserver/pkg/config"
	"github.com/ragstack/ragserver/pkg/domain/errors"
	"github.com/ragstack/ragserver/pkg/domain/storage"
)

// minioDataLake keeps all zones inside a single bucket, with the zone name as
// the key prefix. Safe for concurrent use.
type minioDataLake struct {
	client *minio.Client
	bucket string
}

func NewMinIODataLake(cfg config.StorageConfig) (storage.DataLake, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	lake := &minioDataLake{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return lake, nil
}

func zoneKey(zone storage.Zone, key string) string {
	return string(zone) + "/" + key
}

func (m *minioDataLake) Put(
	ctx context.Context,
	zone storage.Zone,
	key string,
	r io.Reader,
	opt storage.PutObjectOptions,
) (storage.ObjectInfo, error) {
	if !zone.Valid() {
		return storage.ObjectInfo{}, errors.ErrInvalidZone
	}
	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, zoneKey(zone, key), r, opt.Size, putOpts)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	return storage.ObjectInfo{
		Key:          key,
		Zone:         zone,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (m *minioDataLake) Get(
	ctx context.Context,
	zone storage.Zone,
	key string,
) (io.ReadCloser, storage.ObjectInfo, error) {
	if !zone.Valid() {
		return nil, storage.ObjectInfo{}, errors.ErrInvalidZone
	}
	obj, err := m.client.GetObject(ctx, m.bucket, zoneKey(zone, key), minio.GetObjectOptions{})
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, storage.ObjectInfo{}, err
	}
	info := storage.ObjectInfo{
		Key:          key,
		Zone:         zone,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}
	return obj, info, nil
}

func (m *minioDataLake) Delete(ctx context.Context, zone storage.Zone, key string) error {
	if !zone.Valid() {
		return errors.ErrInvalidZone
	}
	return m.client.RemoveObject(ctx, m.bucket, zoneKey(zone, key), minio.RemoveObjectOptions{})
}

func (m *minioDataLake) List(
	ctx context.Context,
	zone storage.Zone,
	prefix string,
) ([]storage.ObjectInfo, error) {
	if !zone.Valid() {
		return nil, errors.ErrInvalidZone
	}
	var infos []storage.ObjectInfo
	zonePrefix := zoneKey(zone, prefix)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    zonePrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		infos = append(infos, storage.ObjectInfo{
			Key:          obj.Key[len(string(zone))+1:],
			Zone:         zone,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	return infos, nil
}

// Promote server-side copies an object between zones; the source stays in
// place so lineage is preserved.
func (m *minioDataLake) Promote(
	ctx context.Context,
	from, to storage.Zone,
	key string,
) (storage.ObjectInfo, error) {
	if !from.Valid() || !to.Valid() {
		return storage.ObjectInfo{}, errors.ErrInvalidZone
	}
	info, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: zoneKey(to, key)},
		minio.CopySrcOptions{Bucket: m.bucket, Object: zoneKey(from, key)},
	)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("promote %s from %s to %s: %w", key, from, to, err)
	}
	return storage.ObjectInfo{
		Key:          key,
		Zone:         to,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (m *minioDataLake) Stats(ctx context.Context) ([]storage.ZoneStats, error) {
	stats := make([]storage.ZoneStats, 0, len(storage.Zones))
	for _, zone := range storage.Zones {
		var count, bytes int64
		for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    string(zone) + "/",
			Recursive: true,
		}) {
			if obj.Err != nil {
				return nil, obj.Err
			}
			count++
			bytes += obj.Size
		}
		stats = append(stats, storage.ZoneStats{
			Zone:        zone,
			ObjectCount: count,
			TotalBytes:  bytes,
		})
	}
	return stats, nil
}

func (m *minioDataLake) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
