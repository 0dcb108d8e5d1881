package timeparse

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/studymate/studymate/plugin/ai"
)

const timeAnalysisPrompt = `You are a time reference analysis system for a student assistant application. Your task is to identify time references in user questions and return structured information.

Types of time references to identify (in both Vietnamese and English):
1. Specific days: today, tomorrow, yesterday, day after tomorrow
2. Days of the week: Monday, Tuesday, Wednesday, etc.
3. Weeks: this week, next week, last week
4. Time periods: week containing date X, this month
5. Specific dates in formats: DD/MM, DD/MM/YYYY
6. Multiple days: Monday and Tuesday, Monday to Friday

Analyze the question and return a JSON object with these fields:
- "date_type": Type of time reference (today, tomorrow, yesterday, day_after_tomorrow, this_week, next_week, last_week, this_month, specific_date, specific_week, monday, tuesday, wednesday, thursday, friday, saturday, sunday, multiple_days, date_range)
- "original_text": The original text in the question referring to time
- "date_value": The date value relative to the current date (today). For single days, this is the day offset (0 for today, 1 for tomorrow, -1 for yesterday). For time periods, this is an array of two day offsets [start_offset, end_offset]. For a specific week, this is a "D/M" date string.
- "is_range": true if this is a time period, false if it's a specific day
- "multiple_dates": (optional) An array of day offsets when multiple non-consecutive days are mentioned

Examples:

Question: "What's my schedule for today?"
Response: {"date_type": "today", "original_text": "today", "date_value": 0, "is_range": false}

Question: "Cho tôi xem lịch học tuần này"
Response: {"date_type": "this_week", "original_text": "tuần này", "date_value": [0, 6], "is_range": true}

Question: "Lịch học tuần có ngày 15/5 là gì?"
Response: {"date_type": "specific_week", "original_text": "tuần có ngày 15/5", "date_value": "15/5", "is_range": true}

Question: "Tôi có lớp học vào thứ hai và thứ tư không?"
Response: {"date_type": "multiple_days", "original_text": "thứ hai và thứ tư", "multiple_dates": [1, 3], "is_range": false}

Question: "Lịch học từ thứ hai đến thứ sáu của tôi?"
Response: {"date_type": "date_range", "original_text": "từ thứ hai đến thứ sáu", "date_value": [1, 5], "is_range": true}

Respond with the JSON object only.`

// jsonObjectRe extracts a JSON object even when the model wraps it in prose.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// structuredTime is the constrained JSON shape the model is asked for.
type structuredTime struct {
	DateType      string          `json:"date_type"`
	OriginalText  string          `json:"original_text"`
	DateValue     json.RawMessage `json:"date_value"`
	IsRange       bool            `json:"is_range"`
	MultipleDates []int           `json:"multiple_dates"`
}

// Interpreter delegates time interpretation to a language model. Every
// failure mode (timeout, malformed JSON, missing fields) yields nil, which
// the resolver treats as "defer to rule-based resolution", never as today.
type Interpreter struct {
	llm     ai.LLMService
	timeout time.Duration
}

// NewInterpreter creates an interpreter backed by the given LLM service.
func NewInterpreter(llm ai.LLMService, timeout time.Duration) *Interpreter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Interpreter{llm: llm, timeout: timeout}
}

// Interpret asks the model for a structured time description and converts
// it to a DateReference. Returns nil on any failure.
func (i *Interpreter) Interpret(ctx context.Context, text string, today time.Time) *DateReference {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	resp, err := i.llm.Complete(ctx, timeAnalysisPrompt, text)
	if err != nil {
		slog.Debug("time interpretation request failed", "error", err)
		return nil
	}

	raw := jsonObjectRe.FindString(resp)
	if raw == "" {
		slog.Debug("time interpretation response carried no JSON object")
		return nil
	}

	var st structuredTime
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		slog.Debug("time interpretation JSON malformed", "error", err)
		return nil
	}

	return st.toReference(today)
}

func (st *structuredTime) toReference(today time.Time) *DateReference {
	if st.DateType == "" || st.OriginalText == "" {
		return nil
	}
	today = dateOnly(today)
	refType := ReferenceType(st.DateType)

	if st.DateType == string(TypeMultipleDays) && len(st.MultipleDates) > 0 {
		dates := make([]time.Time, 0, len(st.MultipleDates))
		for _, offset := range st.MultipleDates {
			dates = append(dates, today.AddDate(0, 0, offset))
		}
		ref := DateReference{Kind: KindMultiple, Dates: dates, Type: TypeMultipleDays, MatchedText: st.OriginalText}
		return &ref
	}

	// Week types are recomputed from the current Monday; model-provided
	// offsets are unreliable for week math.
	switch refType {
	case TypeThisWeek, TypeNextWeek, TypeLastWeek:
		monday := mondayOf(today)
		switch refType {
		case TypeNextWeek:
			monday = monday.AddDate(0, 0, 7)
		case TypeLastWeek:
			monday = monday.AddDate(0, 0, -7)
		}
		ref := span(monday, monday.AddDate(0, 0, 6), refType, st.OriginalText)
		return &ref
	}

	if st.IsRange {
		if refType == TypeSpecificWeek {
			var dayMonth string
			if err := json.Unmarshal(st.DateValue, &dayMonth); err != nil {
				return nil
			}
			target, ok := parseDayMonth(dayMonth, today)
			if !ok {
				return nil
			}
			start, end := weekOf(target)
			ref := span(start, end, TypeSpecificWeek, st.OriginalText)
			return &ref
		}

		var offsets []int
		if err := json.Unmarshal(st.DateValue, &offsets); err != nil || len(offsets) != 2 {
			return nil
		}
		ref := span(today.AddDate(0, 0, offsets[0]), today.AddDate(0, 0, offsets[1]), refType, st.OriginalText)
		return &ref
	}

	var offset int
	if err := json.Unmarshal(st.DateValue, &offset); err != nil {
		return nil
	}
	ref := single(today.AddDate(0, 0, offset), refType, st.OriginalText)
	return &ref
}

// parseDayMonth parses "D/M" or "D/M/YYYY" strings.
func parseDayMonth(value string, today time.Time) (time.Time, bool) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year := today.Year()
	if len(parts) == 3 {
		year, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return time.Time{}, false
		}
	}
	return makeDate(year, month, day, today.Location())
}
