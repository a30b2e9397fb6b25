package services

import (
	"fmt"
	"strings"
)

// ParseError means a model reply was not valid JSON.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type FieldProblem struct {
	Field   string
	Message string
}

// SchemaValidationError lists every field of a parsed payload that broke the
// content schema.
type SchemaValidationError struct {
	Problems []FieldProblem
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	noun := "errors"
	if len(e.Problems) == 1 {
		noun = "error"
	}
	b.WriteString(fmt.Sprintf("%d validation %s for ContentResponse", len(e.Problems), noun))
	for _, p := range e.Problems {
		b.WriteString("\n")
		b.WriteString(p.Field)
		b.WriteString(": ")
		b.WriteString(p.Message)
	}
	return b.String()
}

// RepairError wraps whatever made the single repair attempt fail.
type RepairError struct {
	Err error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("repair attempt failed: %v", e.Err)
}

func (e *RepairError) Unwrap() error { return e.Err }

type ErrorKind string

const (
	KindParse      ErrorKind = "parse"
	KindValidation ErrorKind = "validation"
	KindGeneration ErrorKind = "generation"
)

// ContentGenerationError is the only error type GenerateContentForTopic returns.
type ContentGenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ContentGenerationError) Error() string { return e.Message }

func (e *ContentGenerationError) Unwrap() error { return e.Err }
