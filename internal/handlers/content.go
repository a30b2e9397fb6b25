package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"topicgen-backend/internal/logger"
	"topicgen-backend/internal/models"
	"topicgen-backend/internal/services"
)

const maxTopicLength = 200

type contentService interface {
	GenerateContentForTopic(ctx context.Context, topic, difficulty string) (map[string]interface{}, error)
}

// contentCache is optional; a nil cache means every request hits the model.
type contentCache interface {
	Get(ctx context.Context, topic, difficulty string) (map[string]interface{}, bool, error)
	Set(ctx context.Context, topic, difficulty string, content map[string]interface{}) error
}

type ContentHandler struct {
	service contentService
	cache   contentCache
	log     *logger.Logger
}

func NewContentHandler(service contentService, cache contentCache, log *logger.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		cache:   cache,
		log:     log,
	}
}

// Generate handles POST /api/v1/content/generate.
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	topic := strings.TrimSpace(req.Topic)
	fields := map[string]string{}
	if topic == "" {
		fields["topic"] = "Topic is required"
	} else if utf8.RuneCountInString(topic) > maxTopicLength {
		fields["topic"] = "Topic must be at most 200 characters"
	}

	difficulty := models.DifficultyBeginner
	if d := strings.TrimSpace(req.Difficulty); d != "" {
		level, err := models.NormalizeDifficulty(d)
		if err != nil {
			fields["difficulty"] = "Difficulty must be one of beginner, intermediate, advanced"
		}
		difficulty = level
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	ctx := r.Context()
	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx, topic, difficulty)
		if err != nil {
			h.log.Warn("content cache read failed", "topic", topic, "error", err)
		} else if ok {
			h.log.Debug("content cache hit", "topic", topic, "difficulty", difficulty)
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	content, err := h.service.GenerateContentForTopic(ctx, topic, difficulty)
	if err != nil {
		handleGenerationError(w, r, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, topic, difficulty, content); err != nil {
			h.log.Warn("content cache write failed", "topic", topic, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, content)
}

func handleGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	var genErr *services.ContentGenerationError
	if !errors.As(err, &genErr) {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	switch genErr.Kind {
	case services.KindParse:
		writeJSON(w, http.StatusBadGateway, errorResp("AI_PARSE_ERROR", genErr.Message, r))
	case services.KindValidation:
		writeJSON(w, http.StatusBadGateway, errorResp("AI_VALIDATION_ERROR", genErr.Message, r))
	default:
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", genErr.Message, r))
	}
}
