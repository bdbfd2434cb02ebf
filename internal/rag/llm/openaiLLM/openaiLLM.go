package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/llm"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key is empty")
			return
		}
		openaiClient = &llmClient{
			client:    openai.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contextText := strings.Join(matches, "\n---\n")
	userPrompt := fmt.Sprintf("Documentation context:\n%s\n\nUser Question: %s", contextText, userQuery)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.SystemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty completion result")
	}
	return completion.Choices[0].Message.Content, nil
}
