package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/storage"
)

type DataLake struct {
	mock.Mock
}

func (m *DataLake) Put(
	ctx context.Context,
	zone storage.Zone,
	key string,
	r io.Reader,
	opt storage.PutObjectOptions,
) (storage.ObjectInfo, error) {
	args := m.Called(ctx, zone, key, r, opt)
	info, _ := args.Get(0).(storage.ObjectInfo)
	return info, args.Error(1)
}

func (m *DataLake) Get(
	ctx context.Context,
	zone storage.Zone,
	key string,
) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, zone, key)
	reader, _ := args.Get(0).(io.ReadCloser)
	info, _ := args.Get(1).(storage.ObjectInfo)
	return reader, info, args.Error(2)
}

func (m *DataLake) Delete(ctx context.Context, zone storage.Zone, key string) error {
	args := m.Called(ctx, zone, key)
	return args.Error(0)
}

func (m *DataLake) List(ctx context.Context, zone storage.Zone, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, zone, prefix)
	infos, _ := args.Get(0).([]storage.ObjectInfo)
	return infos, args.Error(1)
}

func (m *DataLake) Promote(ctx context.Context, from, to storage.Zone, key string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, from, to, key)
	info, _ := args.Get(0).(storage.ObjectInfo)
	return info, args.Error(1)
}

func (m *DataLake) Stats(ctx context.Context) ([]storage.ZoneStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]storage.ZoneStats)
	return stats, args.Error(1)
}

func (m *DataLake) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
