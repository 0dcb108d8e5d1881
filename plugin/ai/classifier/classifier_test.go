package classifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studymate/studymate/plugin/ai"
)

func scriptedLLM(response string, err error) *ai.MockLLMService {
	mock := ai.NewMockLLMService()
	mock.ChatFunc = func(ctx context.Context, messages []ai.Message) (string, error) {
		return response, err
	}
	return mock
}

func TestKeywordMatcherSchedule(t *testing.T) {
	m := NewKeywordMatcher()

	tests := []struct {
		name    string
		input   string
		matched bool
	}{
		{"accented schedule phrase", "cho em xem lịch học tuần này", true},
		{"accented timetable", "thời khóa biểu hôm nay", true},
		{"unaccented schedule", "lich hoc ngay mai", true},
		{"unaccented exam date", "ngay thi mon toan", true},
		{"english schedule", "show my timetable", true},
		{"grades question", "điểm GPA của em bao nhiêu", false},
		{"plain greeting", "xin chào", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyword, ok := m.MatchSchedule(tt.input)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.NotEmpty(t, keyword)
			}
		})
	}
}

func TestKeywordMatcherExamIntent(t *testing.T) {
	m := NewKeywordMatcher()

	assert.True(t, m.IsExamQuery("lịch thi cuối kỳ của em"))
	assert.True(t, m.IsExamQuery("ngay thi mon giai tich"))
	assert.True(t, m.IsExamQuery("ca thi sáng hay chiều"))
	assert.False(t, m.IsExamQuery("lịch học thứ 2"))

	assert.True(t, m.IsMidtermQuery("lịch thi giữa kỳ"))
	assert.True(t, m.IsMidtermQuery("midterm schedule"))
	assert.False(t, m.IsMidtermQuery("lịch thi cuối kỳ"))
}

func TestKeywordMatcherBlocklist(t *testing.T) {
	m := NewKeywordMatcher()

	tests := []struct {
		name     string
		input    string
		academic bool
	}{
		{"romance", "em nên tỏ tình với người yêu thế nào", false},
		{"gambling unaccented", "cho em so xo so hom nay", false},
		{"politics english", "what do you think about the election", false},
		{"schedule", "lịch học hôm nay", true},
		{"grades", "điểm thi giữa kỳ của em", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.academic, m.IsAcademic(tt.input))
		})
	}
}

func TestServiceKeywordLayer(t *testing.T) {
	llm := scriptedLLM(`{"category": "career", "confidence": 0.8}`, nil)
	svc := NewService(llm, time.Second)

	result := svc.Classify(context.Background(), "cho em xem lịch học tuần sau")
	assert.Equal(t, CategorySchedule, result.Category)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "keyword", result.Method)
	assert.Empty(t, llm.Calls, "keyword matches must not consult the model")
}

func TestServiceBlocksNonAcademic(t *testing.T) {
	llm := scriptedLLM(`{"category": "general", "confidence": 0.8}`, nil)
	svc := NewService(llm, time.Second)

	result := svc.Classify(context.Background(), "mai có nên mua xổ số không")
	assert.Equal(t, CategoryOther, result.Category)
	assert.Empty(t, llm.Calls)
}

func TestServiceModelLayer(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		err        error
		category   Category
		confidence float64
		method     string
	}{
		{
			"clean JSON",
			`{"category": "career", "confidence": 0.85}`,
			nil, CategoryCareer, 0.85, "ai",
		},
		{
			"JSON wrapped in markdown",
			"```json\n{\"category\": \"grades\", \"confidence\": 0.9}\n```",
			nil, CategoryGrades, 0.9, "ai",
		},
		{
			"out of range confidence normalized",
			`{"category": "courses", "confidence": 7}`,
			nil, CategoryCourses, 0.7, "ai",
		},
		{
			"prose answer sniffed",
			"I would say this question is about courses and materials.",
			nil, CategoryCourses, 0.7, "ai-text",
		},
		{
			"unknown category falls back",
			`{"category": "banana", "confidence": 0.9}`,
			nil, CategoryGeneral, 0.5, "ai-fallback",
		},
		{
			"model error falls back",
			"", fmt.Errorf("upstream unavailable"),
			CategoryGeneral, 0.3, "ai-fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(scriptedLLM(tt.response, tt.err), time.Second)
			result := svc.Classify(context.Background(), "em nên học gì để đi làm")
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.confidence, result.Confidence)
			assert.Equal(t, tt.method, result.Method)
		})
	}
}

func TestServiceWithoutModel(t *testing.T) {
	svc := NewService(nil, 0)

	result := svc.Classify(context.Background(), "em nên chọn chuyên ngành nào")
	assert.Equal(t, CategoryGeneral, result.Category)
	assert.Equal(t, 0.5, result.Confidence)
}
