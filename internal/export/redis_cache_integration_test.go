//go:build integration

package export_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"penguinlens/internal/dataset"
	"penguinlens/internal/dataset/datasettest"
	"penguinlens/internal/export"
	"penguinlens/pkg/platform/sentinel"
	"penguinlens/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *export.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = export.NewRedisCache(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestMissReturnsNotFound() {
	_, err := s.cache.Get(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestExporterServesIdenticalBytesFromRedis() {
	ctx := context.Background()
	records := datasettest.SampleRecords()
	e := export.NewExporter(export.WithCache(s.cache))

	loads := 0
	load := func() []dataset.Record {
		loads++
		return records
	}

	first, err := e.Export(ctx, "k", load)
	s.Require().NoError(err)
	second, err := e.Export(ctx, "k", load)
	s.Require().NoError(err)

	s.Equal(export.Encode(records), first)
	s.Equal(first, second)
	s.Equal(1, loads)

	ttl, err := s.redis.Client.TTL(ctx, "penguinlens:k").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
