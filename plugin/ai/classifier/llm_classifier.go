package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/studymate/studymate/plugin/ai"
)

const classificationPrompt = `You classify questions from Vietnamese university students into exactly one category.

Categories:
- schedule: class timetables, exam dates, classrooms, class times
- grades: scores, GPA, academic performance, transcripts
- courses: course content, materials, lecturers, credits, curriculum
- career: career paths, internships, employment, skills for jobs
- general: other academic advice and student life at the university
- other: anything not related to studying or student life

Reply with only a JSON object:
{"category": "<category>", "confidence": <0.0-1.0>}

Question: %s`

var categoryJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

// llmResult mirrors the JSON the model is asked to emit.
type llmResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

var validCategories = map[string]Category{
	"schedule": CategorySchedule,
	"grades":   CategoryGrades,
	"courses":  CategoryCourses,
	"career":   CategoryCareer,
	"general":  CategoryGeneral,
	"other":    CategoryOther,
}

// LLMClassifier asks the language model to categorize questions the keyword
// layer could not decide.
type LLMClassifier struct {
	llm     ai.LLMService
	timeout time.Duration
}

// NewLLMClassifier creates a classifier backed by the given model. A zero
// timeout defaults to 10 seconds.
func NewLLMClassifier(llm ai.LLMService, timeout time.Duration) *LLMClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LLMClassifier{llm: llm, timeout: timeout}
}

// Classify sends the question to the model and parses its answer. Model
// failures degrade to the general category with low confidence so the chat
// pipeline keeps working.
func (c *LLMClassifier) Classify(ctx context.Context, question string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(classificationPrompt, question)
	response, err := c.llm.Chat(ctx, []ai.Message{{Role: "user", Content: prompt}})
	if err != nil {
		slog.Warn("classification model call failed", "error", err)
		return Result{Category: CategoryGeneral, Confidence: 0.3, Method: "ai-fallback"}
	}

	return c.parseResponse(response)
}

func (c *LLMClassifier) parseResponse(response string) Result {
	if raw := categoryJSONRe.FindString(response); raw != "" {
		var parsed llmResult
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			if category, ok := validCategories[strings.ToLower(strings.TrimSpace(parsed.Category))]; ok {
				confidence := parsed.Confidence
				if confidence <= 0 || confidence > 1 {
					confidence = 0.7
				}
				return Result{Category: category, Confidence: confidence, Method: "ai"}
			}
		}
	}

	// Some models answer in prose despite the instruction. Sniff the text
	// for a category name before giving up.
	lower := strings.ToLower(response)
	for name, category := range validCategories {
		if strings.Contains(lower, name) {
			return Result{Category: category, Confidence: 0.7, Method: "ai-text"}
		}
	}

	slog.Warn("unrecognized classification response", "response", truncate(response, 120))
	return Result{Category: CategoryGeneral, Confidence: 0.5, Method: "ai-fallback"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
