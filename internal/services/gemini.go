package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"topicgen-backend/internal/logger"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements LLMClient on top of the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	log       *logger.Logger
	rateChan  chan struct{} // Token bucket
}

func NewGeminiClient(apiKey, modelName string, concurrentReqs int, log *logger.Logger) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		log:       log.With("component", "gemini", "model", modelName),
		rateChan:  rateChan,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// acquireRate blocks until a rate slot is available
func (c *GeminiClient) acquireRate(ctx context.Context) error {
	select {
	case <-c.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (c *GeminiClient) releaseRate() {
	c.rateChan <- struct{}{}
}

// Generate builds a fresh model handle per call so that generation options
// never bleed between concurrent requests.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts *GenerationOptions) (string, error) {
	if err := c.acquireRate(ctx); err != nil {
		return "", err
	}
	defer c.releaseRate()

	model := c.client.GenerativeModel(c.modelName)
	if opts != nil {
		model.SetTemperature(opts.Temperature)
		model.SetTopP(opts.TopP)
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		c.log.Debug("Gemini candidate", "index", i, "finish_reason", cand.FinishReason.String(), "token_count", cand.TokenCount)
		if cand.FinishReason != genai.FinishReasonStop {
			c.log.Warn("Gemini stopped early", "finish_reason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Gemini returned empty response")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
