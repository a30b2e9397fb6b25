package services

import (
	"context"
	"encoding/json"
	"fmt"

	"topicgen-backend/internal/logger"
	"topicgen-backend/internal/models"
)

// Fallback outline used whenever the analysis reply is unusable.
const (
	FallbackSectionIntroduction = "Introduction"
	FallbackSectionCoreConcepts = "Core Concepts"
	FallbackSectionApplications = "Applications"
	FallbackSectionConclusion   = "Conclusion"

	fallbackKeyConceptFormat = "Important aspects of %s"
)

// TopicAnalyzer asks the model for a difficulty, an outline and key concepts.
// It never fails: an unusable reply yields FallbackAnalysis.
type TopicAnalyzer struct {
	llm LLMClient
	log *logger.Logger
}

func NewTopicAnalyzer(llm LLMClient, log *logger.Logger) *TopicAnalyzer {
	return &TopicAnalyzer{llm: llm, log: log}
}

func (a *TopicAnalyzer) Analyze(ctx context.Context, topic, difficulty string) models.TopicAnalysis {
	reply, err := a.llm.Generate(ctx, buildAnalysisPrompt(topic), nil)
	if err != nil {
		a.log.Warn("topic analysis call failed, using fallback outline", "topic", topic, "error", err)
		return FallbackAnalysis(topic, difficulty)
	}

	var analysis models.TopicAnalysis
	if err := json.Unmarshal([]byte(NormalizeResponse(reply)), &analysis); err != nil {
		a.log.Warn("topic analysis reply is not valid JSON, using fallback outline",
			"topic", topic, "error", err, "excerpt", excerpt(reply))
		return FallbackAnalysis(topic, difficulty)
	}

	return analysis
}

// FallbackAnalysis is the fixed outline used when analysis cannot be parsed.
func FallbackAnalysis(topic, difficulty string) models.TopicAnalysis {
	return models.TopicAnalysis{
		RecommendedDifficulty: difficulty,
		Sections: []string{
			FallbackSectionIntroduction,
			FallbackSectionCoreConcepts,
			FallbackSectionApplications,
			FallbackSectionConclusion,
		},
		KeyConcepts: []string{fmt.Sprintf(fallbackKeyConceptFormat, topic)},
	}
}
