package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const jsonOnlyInstruction = "IMPORTANT: Return ONLY the JSON object with no explanation, no markdown formatting, and no backticks.\n"

func buildAnalysisPrompt(topic string) string {
	var b strings.Builder

	b.WriteString("You are a structured data generator.\n\n")
	b.WriteString(fmt.Sprintf("Analyze the topic '%s' and determine:\n", topic))
	b.WriteString("1. The appropriate difficulty level (beginner/intermediate/advanced)\n")
	b.WriteString("2. The logical sections that should be included\n")
	b.WriteString("3. Key concepts that must be covered\n\n")

	b.WriteString(`Return your analysis as a valid JSON object with exactly these three keys:
{
  "recommended_difficulty": "beginner",
  "sections": ["Introduction", "Section 1", "Section 2", "Conclusion"],
  "key_concepts": ["Concept 1", "Concept 2", "Concept 3"]
}
"recommended_difficulty" must be one of "beginner", "intermediate" or "advanced".

`)
	b.WriteString(jsonOnlyInstruction)

	return b.String()
}

func buildContentPrompt(topic, difficulty string, keyConcepts []string, minKeyPoints int) string {
	var b strings.Builder

	// Role
	b.WriteString("You are a structured data generator.\n\n")
	b.WriteString(fmt.Sprintf("Generate comprehensive educational content about %s at a %s level.\n\n", topic, difficulty))

	// Output shape
	exampleShape := map[string]interface{}{
		"topic":   topic,
		"summary": "A concise summary of the topic",
		"sections": []map[string]interface{}{{
			"title":      "Section title",
			"content":    "Detailed section content",
			"key_points": exampleKeyPoints(minKeyPoints),
		}},
		"references":       []string{"Reference 1", "Reference 2"},
		"difficulty_level": difficulty,
	}
	b.WriteString("Structure your response as a valid JSON object with this exact format:\n")
	b.WriteString(prettyJSON(exampleShape))
	b.WriteString("\n\n")

	// Key concepts from the analysis
	if keyConcepts == nil {
		keyConcepts = []string{}
	}
	concepts, _ := json.Marshal(keyConcepts)
	b.WriteString(fmt.Sprintf("Make sure to include these key concepts: %s\n\n", concepts))

	// Structural requirements
	b.WriteString("Make sure the content is:\n")
	b.WriteString("1. Educational and accurate\n")
	b.WriteString("2. Well-structured with logical sections\n")
	b.WriteString(fmt.Sprintf("3. Includes at least %d key points for each section\n", minKeyPoints))
	b.WriteString(fmt.Sprintf("4. Appropriate for %s level learners\n\n", difficulty))

	b.WriteString(jsonOnlyInstruction)

	return b.String()
}

func buildRepairPrompt(payload []byte, validationErr string, minKeyPoints int) string {
	var b strings.Builder

	b.WriteString("The following content has validation errors:\n\n")
	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		indented.Reset()
		indented.Write(payload)
	}
	b.WriteString(indented.String())
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Error: %s\n\n", validationErr))

	b.WriteString("Please fix the content to match this schema exactly:\n\n")
	b.WriteString(`{
  "topic": "string",
  "summary": "string",
  "sections": [
    {
      "title": "string (non-empty)",
      "content": "string",
      "key_points": ["string", "string", "string"]
    }
  ],
  "references": ["string"],
  "difficulty_level": "beginner" or "intermediate" or "advanced"
}
`)
	b.WriteString(fmt.Sprintf("\nEvery section needs at least %d key points. \"references\" is optional.\n\n", minKeyPoints))
	b.WriteString("Return only the fixed JSON.\n")

	return b.String()
}

func exampleKeyPoints(n int) []string {
	if n < 1 {
		n = 1
	}
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf("Key point %d", i+1)
	}
	return points
}

func prettyJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
