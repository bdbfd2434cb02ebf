// @title           Aqtra Docs Assistant API
// @version         1.0
// @description     Retrieval-augmented question answering over the Aqtra platform documentation

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/data/store"
	jobmodel "github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/handlers"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/job"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/embedding/googleEmbedding"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/llm"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/llm/gemini"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/llm/openaiLLM"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/vectorDB/qdrantDB"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/server"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/worker"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config; a missing .env only matters for the smoke test, the server
	//can run off the ambient environment
	if err := config.LoadEnvFile("."); err != nil {
		logger.Warn("No .env file loaded", "err", err)
	}

	flag.StringVar(&listenAddr, "listen-addr", ":"+config.Port(), "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service with redis stores, in-memory fallback when offline
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}

	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	if answerCache := store.GetRedisAnswerCache(serviceContext); answerCache != nil {
		serviceConfig.AnswerCache = answerCache
	} else {
		logger.Error("Redis answer cache is offline, falling back to in-memory")
		serviceConfig.AnswerCache = store.InitInMemoryAnswerCache()
	}

	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())

	var llmProvider llm.Provider
	switch config.LLMProvider() {
	case "openai":
		llmProvider = openaiLLM.GetOpenAIClient(serviceContext, config.OpenAIModelName, config.OpenAIAPIKey())
	default:
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService)

	handlers.InitHandlers(service, ragService)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
