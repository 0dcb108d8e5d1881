// Package exam answers exam schedule questions: it fetches the semester's
// exam list once and filters it by the resolved date reference or a subject
// keyword.
package exam

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/uis"
)

// Session identifies an authenticated student at the university API.
type Session struct {
	Token      string
	SemesterID int
}

// FilterType records which filter produced the result.
type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterDate      FilterType = "date"
	FilterDateRange FilterType = "date_range"
	FilterSubject   FilterType = "subject"
)

// Result is the outcome of an exam lookup.
type Result struct {
	Exams       []uis.Exam
	FilterType  FilterType
	FilterValue string
	Midterm     bool
}

// Query selects which exams to return.
type Query struct {
	// Reference filters by date when its type is not the default fallback.
	Reference timeparse.DateReference
	// SubjectKeyword filters by subject name or code when no date applies.
	SubjectKeyword string
	// Midterm selects the midterm round instead of finals.
	Midterm bool
}

// Service looks up exam schedules.
type Service struct {
	api uis.API
}

// NewService creates an exam service backed by the university API.
func NewService(api uis.API) *Service {
	return &Service{api: api}
}

// Lookup fetches the semester exams and applies the query's filter. A date
// reference that resolved to the default fallback does not filter; the whole
// list is returned so the student still sees their exams.
func (s *Service) Lookup(ctx context.Context, session Session, query Query) (*Result, error) {
	exams, err := s.api.FetchExamSchedule(ctx, session.Token, session.SemesterID, query.Midterm)
	if err != nil {
		return nil, err
	}

	result := &Result{Exams: exams, FilterType: FilterAll, Midterm: query.Midterm}
	ref := query.Reference

	switch {
	case ref.Kind == timeparse.KindRange:
		result.Exams = examsInRange(exams, ref.Start, ref.End)
		result.FilterType = FilterDateRange
		result.FilterValue = ref.Start.Format(uis.DateLayout) + " - " + ref.End.Format(uis.DateLayout)
	case ref.Kind == timeparse.KindMultiple:
		var filtered []uis.Exam
		for _, day := range ref.Dates {
			filtered = append(filtered, examsOn(exams, day)...)
		}
		result.Exams = filtered
		result.FilterType = FilterDate
		result.FilterValue = formatDays(ref.Dates)
	case ref.Type != timeparse.TypeDefault:
		result.Exams = examsOn(exams, ref.Date)
		result.FilterType = FilterDate
		result.FilterValue = ref.Date.Format(uis.DateLayout)
	case query.SubjectKeyword != "":
		result.Exams = examsForSubject(exams, query.SubjectKeyword)
		result.FilterType = FilterSubject
		result.FilterValue = query.SubjectKeyword
	}

	slog.Debug("exam lookup",
		"filter", result.FilterType, "value", result.FilterValue,
		"count", len(result.Exams), "midterm", query.Midterm)
	return result, nil
}

func examsOn(exams []uis.Exam, day time.Time) []uis.Exam {
	target := day.Format(uis.DateLayout)
	var matched []uis.Exam
	for _, exam := range exams {
		if exam.NgayThi == target {
			matched = append(matched, exam)
		}
	}
	return matched
}

func examsInRange(exams []uis.Exam, start, end time.Time) []uis.Exam {
	var matched []uis.Exam
	for _, exam := range exams {
		day, err := exam.Date()
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(end) {
			matched = append(matched, exam)
		}
	}
	return matched
}

func examsForSubject(exams []uis.Exam, keyword string) []uis.Exam {
	keyword = strings.ToLower(keyword)
	var matched []uis.Exam
	for _, exam := range exams {
		if strings.Contains(strings.ToLower(exam.TenMon), keyword) ||
			strings.Contains(strings.ToLower(exam.MaMon), keyword) {
			matched = append(matched, exam)
		}
	}
	return matched
}

func formatDays(days []time.Time) string {
	formatted := make([]string, len(days))
	for i, day := range days {
		formatted[i] = day.Format(uis.DateLayout)
	}
	return strings.Join(formatted, ", ")
}
