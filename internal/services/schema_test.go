package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSchema_BuildValid(t *testing.T) {
	schema := NewContentSchema(2)

	content, err := schema.Build([]byte(contentJSON(t, "Photosynthesis", "beginner", 3, 2)))
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", content.Topic)
	assert.Equal(t, "beginner", content.DifficultyLevel)
	require.Len(t, content.Sections, 2)
	assert.Equal(t, []string{"Point 1.1", "Point 1.2", "Point 1.3"}, content.Sections[0].KeyPoints)
	assert.Equal(t, []string{"Campbell Biology, 12th ed."}, content.References)
}

func TestContentSchema_KeyPointMinimum(t *testing.T) {
	schema := NewContentSchema(2)

	_, err := schema.Build([]byte(contentJSON(t, "Photosynthesis", "beginner", 3, 1)))

	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Problems, 1)
	assert.Equal(t, "sections[1].key_points", schemaErr.Problems[0].Field)
	assert.Contains(t, schemaErr.Error(), "at least 2 key points are required")
}

func TestContentSchema_ConfigurableThreshold(t *testing.T) {
	payload := []byte(contentJSON(t, "Photosynthesis", "beginner", 2))

	_, err := NewContentSchema(2).Build(payload)
	assert.NoError(t, err)

	_, err = NewContentSchema(3).Build(payload)
	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Error(), "at least 3 key points")

	assert.Equal(t, 2, NewContentSchema(0).MinKeyPoints())
}

func TestContentSchema_DifficultyNormalization(t *testing.T) {
	schema := NewContentSchema(2)

	for _, in := range []string{"beginner", "Beginner", "INTERMEDIATE", "AdVaNcEd"} {
		content, err := schema.Build([]byte(contentJSON(t, "Photosynthesis", in, 2)))
		require.NoError(t, err, in)
		assert.Contains(t, []string{"beginner", "intermediate", "advanced"}, content.DifficultyLevel)
	}

	for _, in := range []string{"easy", "", "expert"} {
		_, err := schema.Build([]byte(contentJSON(t, "Photosynthesis", in, 2)))
		var schemaErr *SchemaValidationError
		require.ErrorAs(t, err, &schemaErr, in)
		assert.Equal(t, "difficulty_level", schemaErr.Problems[0].Field)
	}
}

func TestContentSchema_Defaults(t *testing.T) {
	raw := `{
		"topic": "Photosynthesis",
		"summary": "s",
		"sections": [{"title": "Intro", "content": "", "key_points": ["a", "b"]}]
	}`

	content, err := NewContentSchema(2).Build([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "intermediate", content.DifficultyLevel)
	assert.NotNil(t, content.References)
	assert.Empty(t, content.References)
	assert.Equal(t, "", content.Sections[0].Content)
}

func TestContentSchema_Violations(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			"missing topic",
			`{"summary": "s", "sections": []}`,
			"topic",
		},
		{
			"missing sections",
			`{"topic": "t", "summary": "s"}`,
			"sections",
		},
		{
			"empty section title",
			`{"topic": "t", "summary": "s", "sections": [{"title": "", "content": "c", "key_points": ["a", "b"]}]}`,
			"sections[0].title",
		},
		{
			"missing section content",
			`{"topic": "t", "summary": "s", "sections": [{"title": "x", "key_points": ["a", "b"]}]}`,
			"sections[0].content",
		},
		{
			"missing key points",
			`{"topic": "t", "summary": "s", "sections": [{"title": "x", "content": "c"}]}`,
			"sections[0].key_points",
		},
		{
			"key points of wrong type",
			`{"topic": "t", "summary": "s", "sections": [{"title": "x", "content": "c", "key_points": "a, b"}]}`,
			"sections.key_points",
		},
		{
			"array instead of object",
			`[1, 2]`,
			"payload",
		},
	}

	schema := NewContentSchema(2)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.Build([]byte(tc.raw))
			var schemaErr *SchemaValidationError
			require.ErrorAs(t, err, &schemaErr)
			require.NotEmpty(t, schemaErr.Problems)
			assert.Equal(t, tc.field, schemaErr.Problems[0].Field)
		})
	}
}

func TestContentSchema_EmptySectionsAllowed(t *testing.T) {
	content, err := NewContentSchema(2).Build([]byte(`{"topic": "t", "summary": "s", "sections": []}`))
	require.NoError(t, err)
	assert.Empty(t, content.Sections)
}

func TestExcerpt(t *testing.T) {
	short := "not json"
	assert.Equal(t, short, excerpt(short))

	exact := strings.Repeat("a", 200)
	assert.Equal(t, exact, excerpt(exact))

	long := strings.Repeat("光", 250)
	got := excerpt(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("光", 200)+"...", got)
}
