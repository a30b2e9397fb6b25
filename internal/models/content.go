package models

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty levels accepted by the content schema.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DefaultMinKeyPoints is the hard lower bound on key points per section.
const DefaultMinKeyPoints = 2

var ValidDifficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

var (
	ErrEmptySectionTitle = errors.New("section title must not be empty")
	ErrTooFewKeyPoints   = fmt.Errorf("at least %d key points are required", DefaultMinKeyPoints)
)

type ContentSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points"`
}

// NewContentSection builds a section, rejecting an empty title or fewer than
// DefaultMinKeyPoints key points.
func NewContentSection(title, content string, keyPoints []string) (ContentSection, error) {
	if title == "" {
		return ContentSection{}, ErrEmptySectionTitle
	}
	if len(keyPoints) < DefaultMinKeyPoints {
		return ContentSection{}, ErrTooFewKeyPoints
	}
	points := make([]string, len(keyPoints))
	copy(points, keyPoints)
	return ContentSection{Title: title, Content: content, KeyPoints: points}, nil
}

type ContentResponse struct {
	Topic           string           `json:"topic"`
	Summary         string           `json:"summary"`
	Sections        []ContentSection `json:"sections"`
	References      []string         `json:"references"`
	DifficultyLevel string           `json:"difficulty_level"`
}

// NewContentResponse builds a response with a normalized difficulty level.
// Nil references become an empty list.
func NewContentResponse(topic, summary string, sections []ContentSection, references []string, difficulty string) (*ContentResponse, error) {
	level, err := NormalizeDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if references == nil {
		references = []string{}
	}
	return &ContentResponse{
		Topic:           topic,
		Summary:         summary,
		Sections:        sections,
		References:      references,
		DifficultyLevel: level,
	}, nil
}

// NormalizeDifficulty lower-cases a difficulty and checks it against
// ValidDifficulties.
func NormalizeDifficulty(difficulty string) (string, error) {
	level := strings.ToLower(difficulty)
	for _, valid := range ValidDifficulties {
		if level == valid {
			return level, nil
		}
	}
	return "", fmt.Errorf("difficulty level must be one of %v, got %q", ValidDifficulties, difficulty)
}

// ToMap returns the response as a plain key/value mapping for serialization.
func (c *ContentResponse) ToMap() map[string]interface{} {
	sections := make([]map[string]interface{}, len(c.Sections))
	for i, s := range c.Sections {
		points := make([]string, len(s.KeyPoints))
		copy(points, s.KeyPoints)
		sections[i] = map[string]interface{}{
			"title":      s.Title,
			"content":    s.Content,
			"key_points": points,
		}
	}
	references := make([]string, len(c.References))
	copy(references, c.References)

	return map[string]interface{}{
		"topic":            c.Topic,
		"summary":          c.Summary,
		"sections":         sections,
		"references":       references,
		"difficulty_level": c.DifficultyLevel,
	}
}

// TopicAnalysis is the planning output of the first model call. It lives for a
// single request only.
type TopicAnalysis struct {
	RecommendedDifficulty string   `json:"recommended_difficulty"`
	Sections              []string `json:"sections"`
	KeyConcepts           []string `json:"key_concepts"`
}

type GenerateContentRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}
