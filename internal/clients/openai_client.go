package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const sentimentPrompt = "You are a sentiment polarity scorer. Reply with a single number between -1 and 1 " +
	"where -1 is most negative, 0 is neutral and 1 is most positive. Reply with the number only."

var (
	ErrEmptyReply = errors.New("model returned no choices")
	errNoPolarity = errors.New("model reply contains no number")
	numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)
)

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: timeout}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAIClient) Score(ctx context.Context, text string) (float64, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		// Zero is dropped by omitempty and would fall back to the API default.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, ErrEmptyReply
	}

	return parsePolarity(resp.Choices[0].Message.Content)
}

func (o *OpenAIClient) HealthCheck(ctx context.Context) error {
	if _, err := o.Client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models failed: %w", err)
	}
	return nil
}

// parsePolarity extracts the first number from a model reply.
func parsePolarity(reply string) (float64, error) {
	match := numberPattern.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", errNoPolarity, reply)
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse polarity %q: %w", match, err)
	}
	return score, nil
}
