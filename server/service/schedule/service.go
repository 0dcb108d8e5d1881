// Package schedule answers timetable questions: it resolves the date
// reference in a question and collects the classes for each referenced day.
package schedule

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/uis"
)

const (
	// maxWeekDays bounds range iteration for week-scoped references.
	maxWeekDays = 7
	// maxMonthDays bounds range iteration for month-scoped references.
	maxMonthDays = 14

	lookupConcurrency = 4
)

// Session identifies an authenticated student at the university API.
type Session struct {
	Token      string
	SemesterID int
}

// DaySchedule holds the classes of one day, stamped with its source date.
type DaySchedule struct {
	Date    time.Time
	Classes []uis.ClassEntry
}

// Result is the outcome of a schedule lookup.
type Result struct {
	Reference timeparse.DateReference
	Semester  uis.Semester
	Days      []DaySchedule
	// Truncated is set when a month-scoped range was cut to the iteration bound.
	Truncated bool
}

// Service looks up class timetables for resolved date references.
type Service struct {
	api uis.API
}

// NewService creates a schedule service backed by the university API.
func NewService(api uis.API) *Service {
	return &Service{api: api}
}

// Lookup fetches the timetable days referenced by ref. Days without classes
// are included with an empty class list; they are not errors.
func (s *Service) Lookup(ctx context.Context, session Session, ref timeparse.DateReference) (*Result, error) {
	timetable, err := s.api.FetchWeekSchedule(ctx, session.Token, session.SemesterID)
	if err != nil {
		return nil, err
	}

	result := &Result{Reference: ref, Semester: timetable.HocKy}

	days := referencedDays(ref)
	if bound := rangeBound(ref.Type); len(days) > bound {
		days = days[:bound]
		result.Truncated = true
	}

	schedules := make([]DaySchedule, len(days))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(lookupConcurrency)
	for i, day := range days {
		group.Go(func() error {
			schedules[i] = DaySchedule{Date: day, Classes: sortClasses(timetable.ClassesOn(day))}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result.Days = schedules
	slog.Debug("schedule lookup",
		"type", ref.Type, "days", len(schedules), "semester", session.SemesterID)
	return result, nil
}

// rangeBound returns the iteration cap for a reference type. Month-scoped
// ranges get a larger budget than week-scoped ones.
func rangeBound(refType timeparse.ReferenceType) int {
	if refType == timeparse.TypeThisMonth {
		return maxMonthDays
	}
	return maxWeekDays
}

// referencedDays expands a date reference into the concrete days to look up,
// in chronological order.
func referencedDays(ref timeparse.DateReference) []time.Time {
	switch ref.Kind {
	case timeparse.KindRange:
		var days []time.Time
		for day := ref.Start; !day.After(ref.End); day = day.AddDate(0, 0, 1) {
			days = append(days, day)
		}
		return days
	case timeparse.KindMultiple:
		days := append([]time.Time(nil), ref.Dates...)
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
		return days
	default:
		return []time.Time{ref.Date}
	}
}

// sortClasses orders a day's classes by starting period.
func sortClasses(classes []uis.ClassEntry) []uis.ClassEntry {
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].TietBatDau < classes[j].TietBatDau
	})
	return classes
}
