package services

import (
	"context"
	"errors"
	"fmt"

	"topicgen-backend/internal/logger"
	"topicgen-backend/internal/models"
)

const defaultRequestDifficulty = models.DifficultyBeginner

type contentGenerator interface {
	Generate(ctx context.Context, topic, difficulty string) (*models.ContentResponse, error)
}

// ContentService is the entry point the HTTP layer calls. Every failure comes
// back as a *ContentGenerationError.
type ContentService struct {
	generator contentGenerator
	log       *logger.Logger
}

func NewContentService(generator *ContentGenerator, log *logger.Logger) *ContentService {
	return &ContentService{generator: generator, log: log}
}

// GenerateContentForTopic returns the generated content as a plain mapping.
// An empty difficulty means beginner.
func (s *ContentService) GenerateContentForTopic(ctx context.Context, topic, difficulty string) (map[string]interface{}, error) {
	if difficulty == "" {
		difficulty = defaultRequestDifficulty
	}

	content, err := s.generator.Generate(ctx, topic, difficulty)
	if err != nil {
		genErr := classifyError(err)
		s.log.Error("content generation failed", "topic", topic, "kind", string(genErr.Kind), "error", err)
		return nil, genErr
	}

	return content.ToMap(), nil
}

func classifyError(err error) *ContentGenerationError {
	var (
		repairErr *RepairError
		parseErr  *ParseError
		schemaErr *SchemaValidationError
	)

	switch {
	case errors.As(err, &repairErr):
		return &ContentGenerationError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("content validation failed: %v", repairErr),
			Err:     err,
		}
	case errors.As(err, &parseErr):
		return &ContentGenerationError{
			Kind:    KindParse,
			Message: "failed to parse model response as JSON",
			Err:     err,
		}
	case errors.As(err, &schemaErr):
		return &ContentGenerationError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("content validation failed: %v", schemaErr),
			Err:     err,
		}
	default:
		return &ContentGenerationError{
			Kind:    KindGeneration,
			Message: fmt.Sprintf("content generation failed: %v", err),
			Err:     err,
		}
	}
}
