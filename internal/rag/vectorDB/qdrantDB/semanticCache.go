package qdrantDB

import (
	"context"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	err := ensureCollection(ctx, client, config.AnswerCacheCollection)
	if err != nil {
		loggr.Error("Semantic cache collection creation failed", "error", err)
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.AnswerCacheCollection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false, err
	}

	loggr.Debug("Nearest cached answer", "similarity score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false, nil
	}

	loggr.Info("Semantic cache hit")
	answer := searchResult[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	loggr.Debug("Saving answer to semantic cache")
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.AnswerCacheCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to semantic cache failed", "error", err)
	}
	return err
}
