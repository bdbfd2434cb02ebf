package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/commonModels"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.DocsCollectionName

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, qdrantInstance)
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = ensureCollection(ctx, client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, vectorFloat []float32) ([]string, []string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(4)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, nil, err
	}

	var matches []string
	var sources []string
	for _, hit := range result {
		content := hit.Payload["content"].GetStringValue()
		docName := hit.Payload["doc_name"].GetStringValue()
		relPath := hit.Payload["rel_path"].GetStringValue()
		section := hit.Payload["section_num"].GetIntegerValue()

		matches = append(matches, fmt.Sprintf("Document: %s\n%s", docName, content))
		sources = append(sources, fmt.Sprintf("%s#section-%d", relPath, section))
	}

	loggr.Debug("Found matches", "count", len(matches))
	return matches, sources, nil
}

func (db *ClientHolder) RecreateCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		if err := db.QObj.DeleteCollection(ctx, collectionName); err != nil {
			return fmt.Errorf("dropping stale collection failed: %w", err)
		}
	}
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Chunk,
				"section_num":   chunk.SectionNum,
				"source_doc_id": chunk.Doc.Id,
				"doc_name":      chunk.Doc.Name,
				"rel_path":      chunk.Doc.RelPath,
				"chunk_order":   chunk.ChunkPageOrder,
				"chunk_id":      chunk.ChunkId,
				"ingested_at":   chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil

}

func ensureCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return createCollection(ctx, client, collectionName)
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
