package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedReply struct {
	text string
	err  error
}

type recordedCall struct {
	prompt string
	opts   *GenerationOptions
}

// scriptedLLM answers calls in order from replies and records every prompt.
type scriptedLLM struct {
	replies []scriptedReply
	calls   []recordedCall
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts *GenerationOptions) (string, error) {
	s.calls = append(s.calls, recordedCall{prompt: prompt, opts: opts})
	if len(s.calls) > len(s.replies) {
		return "", fmt.Errorf("unexpected call %d", len(s.calls))
	}
	r := s.replies[len(s.calls)-1]
	return r.text, r.err
}

func reply(text string) scriptedReply { return scriptedReply{text: text} }

func analysisJSON(t *testing.T, difficulty string, concepts ...string) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"recommended_difficulty": difficulty,
		"sections":               []string{"Introduction", "Light Reactions", "Calvin Cycle", "Conclusion"},
		"key_concepts":           concepts,
	})
	require.NoError(t, err)
	return string(data)
}

// contentJSON builds a content payload whose sections carry the given number
// of key points each.
func contentJSON(t *testing.T, topic, difficulty string, keyPointsPerSection ...int) string {
	t.Helper()
	sections := make([]map[string]interface{}, len(keyPointsPerSection))
	for i, n := range keyPointsPerSection {
		points := make([]string, n)
		for j := range points {
			points[j] = fmt.Sprintf("Point %d.%d", i+1, j+1)
		}
		sections[i] = map[string]interface{}{
			"title":      fmt.Sprintf("Section %d", i+1),
			"content":    "Plants turn light into chemical energy.",
			"key_points": points,
		}
	}
	data, err := json.Marshal(map[string]interface{}{
		"topic":            topic,
		"summary":          "How plants make food from light.",
		"sections":         sections,
		"references":       []string{"Campbell Biology, 12th ed."},
		"difficulty_level": difficulty,
	})
	require.NoError(t, err)
	return string(data)
}
