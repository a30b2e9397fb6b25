package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"topicgen-backend/internal/logger"
	"topicgen-backend/internal/models"
)

type GeneratorConfig struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32

	// PromptMinKeyPoints is what the prompt asks for per section. It is kept
	// apart from the schema's hard minimum on purpose.
	PromptMinKeyPoints int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Temperature:        0.7,
		TopP:               0.95,
		MaxOutputTokens:    4096,
		PromptMinKeyPoints: 3,
	}
}

// ContentGenerator runs analyze -> generate -> validate -> repair-once for a
// single topic. It holds no per-request state.
type ContentGenerator struct {
	llm      LLMClient
	analyzer *TopicAnalyzer
	schema   *ContentSchema
	cfg      GeneratorConfig
	log      *logger.Logger
}

func NewContentGenerator(llm LLMClient, schema *ContentSchema, cfg GeneratorConfig, log *logger.Logger) *ContentGenerator {
	return &ContentGenerator{
		llm:      llm,
		analyzer: NewTopicAnalyzer(llm, log),
		schema:   schema,
		cfg:      cfg,
		log:      log,
	}
}

func (g *ContentGenerator) Generate(ctx context.Context, topic, difficulty string) (*models.ContentResponse, error) {
	analysis := g.analyzer.Analyze(ctx, topic, difficulty)

	// The analysis recommendation wins over the caller's hint.
	if analysis.RecommendedDifficulty != "" && analysis.RecommendedDifficulty != difficulty {
		g.log.Debug("difficulty overridden by topic analysis",
			"topic", topic, "requested", difficulty, "recommended", analysis.RecommendedDifficulty)
		difficulty = analysis.RecommendedDifficulty
	}

	prompt := buildContentPrompt(topic, difficulty, analysis.KeyConcepts, g.cfg.PromptMinKeyPoints)
	reply, err := g.llm.Generate(ctx, prompt, &GenerationOptions{
		Temperature:     g.cfg.Temperature,
		TopP:            g.cfg.TopP,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("content generation call: %w", err)
	}

	text := NormalizeResponse(reply)
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		g.log.Error("content reply is not valid JSON", "topic", topic, "error", err, "excerpt", excerpt(text))
		return nil, &ParseError{Excerpt: excerpt(text), Err: err}
	}

	content, err := g.schema.Build(raw)
	if err == nil {
		return content, nil
	}

	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		return nil, err
	}

	g.log.Warn("generated content failed schema validation, attempting repair",
		"topic", topic, "problems", len(schemaErr.Problems), "error", schemaErr.Error())
	return g.repair(ctx, raw, schemaErr.Error())
}

// repair makes exactly one correction request. The reply is parsed as-is,
// without fence stripping. A failed call is a service error, not a
// RepairError.
func (g *ContentGenerator) repair(ctx context.Context, payload json.RawMessage, validationErr string) (*models.ContentResponse, error) {
	reply, err := g.llm.Generate(ctx, buildRepairPrompt(payload, validationErr, g.schema.MinKeyPoints()), nil)
	if err != nil {
		g.log.Error("repair call failed", "error", err)
		return nil, fmt.Errorf("repair call: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		g.log.Error("repair reply is not valid JSON", "error", err, "excerpt", excerpt(reply))
		return nil, &RepairError{Err: &ParseError{Excerpt: excerpt(reply), Err: err}}
	}

	content, err := g.schema.Build(raw)
	if err != nil {
		g.log.Error("repaired content still fails schema validation", "error", err)
		return nil, &RepairError{Err: err}
	}

	g.log.Info("content repaired", "topic", content.Topic)
	return content, nil
}
