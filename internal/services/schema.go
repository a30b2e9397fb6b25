package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"topicgen-backend/internal/models"
)

// contentPayload mirrors models.ContentResponse with pointer fields so that a
// missing key can be told apart from an empty value.
type contentPayload struct {
	Topic           *string          `json:"topic" validate:"required"`
	Summary         *string          `json:"summary" validate:"required"`
	Sections        []sectionPayload `json:"sections" validate:"required,dive"`
	References      []string         `json:"references"`
	DifficultyLevel *string          `json:"difficulty_level" validate:"required,difficulty"`
}

type sectionPayload struct {
	Title     *string  `json:"title" validate:"required,min=1"`
	Content   *string  `json:"content" validate:"required"`
	KeyPoints []string `json:"key_points" validate:"keypoints"`
}

// ContentSchema validates model output against the content schema. It is safe
// for concurrent use once built.
type ContentSchema struct {
	validate     *validator.Validate
	minKeyPoints int
}

func NewContentSchema(minKeyPoints int) *ContentSchema {
	if minKeyPoints <= 0 {
		minKeyPoints = models.DefaultMinKeyPoints
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("keypoints", func(fl validator.FieldLevel) bool {
		return fl.Field().Len() >= minKeyPoints
	})
	v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := models.NormalizeDifficulty(fl.Field().String())
		return err == nil
	})

	return &ContentSchema{validate: v, minKeyPoints: minKeyPoints}
}

// MinKeyPoints is the hard lower bound enforced per section.
func (s *ContentSchema) MinKeyPoints() int {
	return s.minKeyPoints
}

// Build constructs a ContentResponse from raw JSON. Any field rule violation,
// including a JSON type mismatch, yields a *SchemaValidationError.
func (s *ContentSchema) Build(raw []byte) (*models.ContentResponse, error) {
	var payload contentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaValidationError{Problems: []FieldProblem{typeProblem(typeErr)}}
		}
		return nil, &ParseError{Excerpt: excerpt(string(raw)), Err: err}
	}

	// difficulty_level is optional and defaults to intermediate
	if payload.DifficultyLevel == nil {
		level := models.DifficultyIntermediate
		payload.DifficultyLevel = &level
	}

	if err := s.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("schema validation: %w", err)
		}
		problems := make([]FieldProblem, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, s.fieldProblem(fe))
		}
		return nil, &SchemaValidationError{Problems: problems}
	}

	sections := make([]models.ContentSection, len(payload.Sections))
	for i, sec := range payload.Sections {
		sections[i] = models.ContentSection{
			Title:     *sec.Title,
			Content:   *sec.Content,
			KeyPoints: sec.KeyPoints,
		}
	}

	return models.NewContentResponse(*payload.Topic, *payload.Summary, sections, payload.References, *payload.DifficultyLevel)
}

func (s *ContentSchema) fieldProblem(fe validator.FieldError) FieldProblem {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "field required"
	case "min":
		msg = "must not be empty"
	case "keypoints":
		msg = fmt.Sprintf("at least %d key points are required, got %d", s.minKeyPoints, reflect.ValueOf(fe.Value()).Len())
	case "difficulty":
		msg = fmt.Sprintf("difficulty level must be one of %v, got %q", models.ValidDifficulties, fe.Value())
	default:
		msg = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return FieldProblem{Field: field, Message: msg}
}

func typeProblem(e *json.UnmarshalTypeError) FieldProblem {
	field := e.Field
	if field == "" {
		field = "payload"
	}
	return FieldProblem{
		Field:   field,
		Message: fmt.Sprintf("expected %s, got %s", jsonTypeName(e.Type), e.Value),
	}
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

const excerptLength = 200

// excerpt keeps the first excerptLength runes of text.
func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptLength]) + "..."
}
