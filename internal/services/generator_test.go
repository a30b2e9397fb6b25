package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicgen-backend/internal/logger"
)

func newTestGenerator(llm LLMClient) *ContentGenerator {
	return NewContentGenerator(llm, NewContentSchema(2), DefaultGeneratorConfig(), logger.Nop())
}

func TestContentGenerator_ValidFirstReply(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner", "chlorophyll", "light reactions")),
		reply("```json\n" + contentJSON(t, "Photosynthesis", "beginner", 3, 3) + "\n```"),
	}}

	content, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", content.Topic)
	assert.Equal(t, "beginner", content.DifficultyLevel)
	require.Len(t, llm.calls, 2, "no repair call expected")

	gen := llm.calls[1]
	require.NotNil(t, gen.opts)
	assert.Equal(t, float32(0.7), gen.opts.Temperature)
	assert.Equal(t, float32(0.95), gen.opts.TopP)
	assert.Equal(t, int32(4096), gen.opts.MaxOutputTokens)
	assert.Contains(t, gen.prompt, "Photosynthesis at a beginner level")
	assert.Contains(t, gen.prompt, `["chlorophyll","light reactions"]`)
	assert.Contains(t, gen.prompt, "at least 3 key points for each section")
	assert.Contains(t, gen.prompt, `"difficulty_level": "beginner"`)
}

func TestContentGenerator_AnalysisOverridesDifficulty(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "advanced", "quantum yield")),
		reply(contentJSON(t, "Photosynthesis", "advanced", 2)),
	}}

	content, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")
	require.NoError(t, err)

	assert.Equal(t, "advanced", content.DifficultyLevel)
	assert.Contains(t, llm.calls[1].prompt, "at a advanced level")
	assert.NotContains(t, llm.calls[1].prompt, "beginner")
}

func TestContentGenerator_FallbackAnalysisKeepsCallerDifficulty(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply("not json at all"),
		reply(contentJSON(t, "Photosynthesis", "intermediate", 2)),
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "intermediate")
	require.NoError(t, err)

	assert.Contains(t, llm.calls[1].prompt, "at a intermediate level")
	assert.Contains(t, llm.calls[1].prompt, `["Important aspects of Photosynthesis"]`)
}

func TestContentGenerator_PromptThresholdIndependentOfSchema(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.PromptMinKeyPoints = 5
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(contentJSON(t, "Photosynthesis", "beginner", 2)),
	}}
	g := NewContentGenerator(llm, NewContentSchema(2), cfg, logger.Nop())

	_, err := g.Generate(context.Background(), "Photosynthesis", "beginner")
	require.NoError(t, err)

	assert.Contains(t, llm.calls[1].prompt, "at least 5 key points for each section")
	assert.Len(t, llm.calls, 2)
}

func TestContentGenerator_ParseFailureIsFatal(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(`{"topic": "Photosynthesis", "summary": `),
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Len(t, llm.calls, 2, "parse failures are not repaired")
}

func TestContentGenerator_ServiceErrorPropagates(t *testing.T) {
	upstream := errors.New("connection reset")
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		{err: upstream},
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")

	assert.ErrorIs(t, err, upstream)
	assert.Len(t, llm.calls, 2)
}

func TestContentGenerator_RepairSucceeds(t *testing.T) {
	invalid := contentJSON(t, "Photosynthesis", "beginner", 3, 1)
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(invalid),
		reply(contentJSON(t, "Photosynthesis", "beginner", 3, 2)),
	}}

	content, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")
	require.NoError(t, err)

	require.Len(t, llm.calls, 3, "exactly one repair call")
	assert.Len(t, content.Sections[1].KeyPoints, 2)

	repair := llm.calls[2]
	assert.Nil(t, repair.opts)
	assert.Contains(t, repair.prompt, "sections[1].key_points: at least 2 key points are required")
	assert.Contains(t, repair.prompt, `"Point 2.1"`)
	assert.Contains(t, repair.prompt, "Return only the fixed JSON.")
}

func TestContentGenerator_RepairStillInvalid(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(contentJSON(t, "Photosynthesis", "beginner", 1)),
		reply(contentJSON(t, "Photosynthesis", "beginner", 1)),
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")

	var repairErr *RepairError
	require.ErrorAs(t, err, &repairErr)
	var schemaErr *SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Len(t, llm.calls, 3, "no second repair attempt")
}

func TestContentGenerator_RepairReplyIsNotNormalized(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(contentJSON(t, "Photosynthesis", "beginner", 1)),
		reply("```json\n" + contentJSON(t, "Photosynthesis", "beginner", 2) + "\n```"),
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")

	var repairErr *RepairError
	require.ErrorAs(t, err, &repairErr)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestContentGenerator_RepairServiceError(t *testing.T) {
	upstream := errors.New("503 service unavailable")
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(analysisJSON(t, "beginner")),
		reply(contentJSON(t, "Photosynthesis", "beginner", 1)),
		{err: upstream},
	}}

	_, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "beginner")

	assert.ErrorIs(t, err, upstream)
	var repairErr *RepairError
	assert.False(t, errors.As(err, &repairErr), "a failed repair call is a service error")
	assert.Len(t, llm.calls, 3)
}

func TestContentGenerator_EmptyRecommendationKeepsCallerDifficulty(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{
		reply(`{"recommended_difficulty": "", "sections": ["Intro"], "key_concepts": ["chlorophyll"]}`),
		reply(contentJSON(t, "Photosynthesis", "advanced", 2)),
	}}

	content, err := newTestGenerator(llm).Generate(context.Background(), "Photosynthesis", "advanced")
	require.NoError(t, err)

	assert.Equal(t, "advanced", content.DifficultyLevel)
	assert.Contains(t, llm.calls[1].prompt, "at a advanced level")
}
