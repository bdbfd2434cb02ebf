package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/data/redisStore"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

// RedisAnswerCache memoizes answers under a hash of the exact question text.
// The semantic (fuzzy) cache lives in the vector store; this one only catches
// repeats of the same question and is much cheaper to hit.
type RedisAnswerCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

type cachedAnswer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

func GetRedisAnswerCache(ctx context.Context) *RedisAnswerCache {
	inner := redisStore.GetRedisStore(ctx, config.RedisAnswerCache)
	if inner == nil {
		return nil
	}
	return &RedisAnswerCache{
		store:  inner,
		logger: logger_i.NewLogger("AnswerCache"),
	}
}

// TestAnswerCache wires a cache backed by a test client; for tests only.
func TestAnswerCache(inner *redisStore.Store) *RedisAnswerCache {
	return &RedisAnswerCache{
		store:  inner,
		logger: logger_i.NewLogger("AnswerCache"),
	}
}

func (s *RedisAnswerCache) GetAnswer(ctx context.Context, question string) (string, []string, bool) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	val, err := s.store.Get(ctx, answerKey(question))
	if s.store.IsNil(err) {
		return "", nil, false
	} else if err != nil {
		log.Error("Answer cache lookup failed", "error", err)
		return "", nil, false
	}

	var cached cachedAnswer
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		log.Error("Corrupt answer cache entry", "error", err)
		return "", nil, false
	}
	log.Debug("Answer cache hit")
	return cached.Answer, cached.Sources, true
}

func (s *RedisAnswerCache) SaveAnswer(ctx context.Context, question string, answer string, sources []string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	data, err := json.Marshal(cachedAnswer{Question: question, Answer: answer, Sources: sources})
	if err != nil {
		return err
	}
	err = s.store.Set(ctx, answerKey(question), data, config.RedisAnswerCacheTTL)
	if err != nil {
		log.Error("Failed to save answer to cache", "error", err)
	}
	return err
}

func answerKey(question string) string {
	sum := sha256.Sum256([]byte(question))
	return "answer:" + hex.EncodeToString(sum[:])
}
