package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	CacheSimilarityCutoff       = 0.97

	EmbeddingOutputDimensionality int32 = 1536
	DocsCollectionName                  = "aqtra-docs"
	AnswerCacheCollection               = "answer-cache"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	QueryTimeout           = 30 * time.Second
	RebuildTimeout         = 15 * time.Minute

	//server listening port, matches the documented deployment default
	DefaultPort = "8000"

	//rebuild job buffer limit
	BufferLimit = 16

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "127.0.0.1"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"

	ModelTemperature float32 = 0.3
	SystemPrompt             = "You are the documentation assistant for the Aqtra platform. Answer strictly from the provided documentation context. If the context does not contain the answer, say you don't know."
	DefaultPromptLanguage    = "en"

	//docs corpus
	DefaultDocsDir  = "docs"
	ChunkSizeChars  = 1000
	ChunkOverlap    = 150
	IngestBatchSize = 100

	//smoke test probe client
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//header carrying the rebuild key, see /update_index
	UpdateAPIKeyHeader = "X-API-Key"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DBs we can use
	RedisJobStore     = 0
	RedisAnswerCache  = 1
	RedisPassword     = ""

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisAnswerCacheTTL = 12 * time.Hour
)
