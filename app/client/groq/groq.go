package groq

import (
	"context"
	"convoease/app/config"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const requestTimeout = 30 * time.Second

// Request is a single-turn completion request against an
// OpenAI-compatible endpoint.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
	// JSONMode asks the model to emit a single JSON object
	JSONMode bool
}

type Client struct {
	client *openai.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewClientFromConfig(cfg.Classifier), nil
}

func NewClientFromConfig(cfg config.Classifier) *Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Complete runs a chat completion and returns the raw text of the first
// choice. The caller owns all interpretation of the content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	completionReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
	}

	if req.JSONMode {
		completionReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	aiResponse, err := c.client.CreateChatCompletion(ctx, completionReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return aiResponse.Choices[0].Message.Content, nil
}
