package store

import (
	"context"
	"encoding/json"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/data/redisStore"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if inner == nil {
		return nil
	}
	return &RedisJobStore{
		store:  inner,
		logger: logger_i.NewLogger("JobStore"),
	}
}

// TestJobStore wires a store backed by a test client; for tests only.
func TestJobStore(inner *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  inner,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", job.Id)
	log.Debug("saving job")
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("Saved job to Redis")
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	log.Debug("getting job")
	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		return job, false
	}

	err = json.Unmarshal([]byte(val), &job)
	if err != nil {
		return job, false
	}

	log.Debug("Job found in Redis")
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobID)
	if err := s.store.Del(ctx, jobID); err != nil {
		log.Error("Failed to delete job", "error", err)
	}
}
