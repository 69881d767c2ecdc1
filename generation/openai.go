package generation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/jonwraymond/storycache/cache"
)

// OpenAIGenerator generates story content with OpenAI chat completions.
type OpenAIGenerator struct {
	client openai.Client
	config Config
}

// NewOpenAIGenerator creates an OpenAI-backed generator. Extra request
// options are appended after the ones derived from config.
func NewOpenAIGenerator(config Config, opts ...option.RequestOption) (*OpenAIGenerator, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Retries belong to the resilience executor.
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(config.BaseURL))
	}
	if config.RequestTimeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(config.RequestTimeout))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIGenerator{
		client: openai.NewClient(reqOpts...),
		config: config,
	}, nil
}

// Name returns the backend label.
func (g *OpenAIGenerator) Name() string { return "openai" }

// GenerateSegment produces the next story segment for sc.
func (g *OpenAIGenerator) GenerateSegment(ctx context.Context, sc cache.StoryContext) (string, error) {
	return g.complete(ctx, BuildSegmentPrompt(sc))
}

// GenerateChoices produces up to MaxChoices choices following segment.
func (g *OpenAIGenerator) GenerateChoices(ctx context.Context, sc cache.StoryContext, segment string) ([]string, error) {
	text, err := g.complete(ctx, BuildChoicesPrompt(sc, segment, g.config.MaxChoices))
	if err != nil {
		return nil, err
	}
	choices := ParseChoices(text, g.config.MaxChoices)
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrGenerationFailed)
	}
	return choices, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	}
	if t := g.config.Temperature; t != nil {
		params.Temperature = openai.Float(*t)
	}
	if g.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(g.config.MaxTokens))
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", ErrGenerationFailed)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
