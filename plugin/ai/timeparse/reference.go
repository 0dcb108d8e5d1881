package timeparse

import (
	"fmt"
	"time"
)

// ReferenceType names the semantic category of a resolved date reference.
type ReferenceType string

const (
	TypeToday            ReferenceType = "today"
	TypeTomorrow         ReferenceType = "tomorrow"
	TypeYesterday        ReferenceType = "yesterday"
	TypeDayAfterTomorrow ReferenceType = "day_after_tomorrow"
	TypeThisWeek         ReferenceType = "this_week"
	TypeNextWeek         ReferenceType = "next_week"
	TypeLastWeek         ReferenceType = "last_week"
	TypeThisMonth        ReferenceType = "this_month"
	TypeSpecificDate     ReferenceType = "specific_date"
	TypeSpecificWeek     ReferenceType = "specific_week"
	TypeMultipleDays     ReferenceType = "multiple_days"
	TypeDateRange        ReferenceType = "date_range"
	TypeDefault          ReferenceType = "default"

	TypeMonday    ReferenceType = "monday"
	TypeTuesday   ReferenceType = "tuesday"
	TypeWednesday ReferenceType = "wednesday"
	TypeThursday  ReferenceType = "thursday"
	TypeFriday    ReferenceType = "friday"
	TypeSaturday  ReferenceType = "saturday"
	TypeSunday    ReferenceType = "sunday"
)

// weekdayTypes maps ISO weekday index (Monday=0) to its reference type.
var weekdayTypes = [7]ReferenceType{
	TypeMonday, TypeTuesday, TypeWednesday, TypeThursday,
	TypeFriday, TypeSaturday, TypeSunday,
}

// Kind discriminates the DateReference variants.
type Kind int

const (
	KindSingle Kind = iota
	KindRange
	KindMultiple
)

// DateReference is the resolver's sole output: a single date, a contiguous
// range, or a discrete date set, tagged with the semantic category and the
// text span that produced it. It is immutable once returned.
type DateReference struct {
	Kind Kind

	// Date is set for KindSingle.
	Date time.Time
	// Start and End are set for KindRange, Start <= End always.
	Start time.Time
	End   time.Time
	// Dates is set for KindMultiple, in the order given.
	Dates []time.Time

	// Type is never empty.
	Type ReferenceType
	// MatchedText is the matched span, or the literal "default" on fallback.
	MatchedText string
}

func single(date time.Time, t ReferenceType, matched string) DateReference {
	return DateReference{Kind: KindSingle, Date: date, Type: t, MatchedText: matched}
}

func span(start, end time.Time, t ReferenceType, matched string) DateReference {
	if end.Before(start) {
		start, end = end, start
	}
	return DateReference{Kind: KindRange, Start: start, End: end, Type: t, MatchedText: matched}
}

func defaultRef(today time.Time) DateReference {
	return single(dateOnly(today), TypeDefault, "default")
}

// dateOnly truncates a time to midnight in its location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns the Monday of the ISO week containing t.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return dateOnly(t).AddDate(0, 0, -(weekday - 1))
}

// weekOf expands a date to its enclosing Monday-Sunday week.
func weekOf(t time.Time) (time.Time, time.Time) {
	start := mondayOf(t)
	return start, start.AddDate(0, 0, 6)
}

// vietnameseWeekdays maps time.Weekday to its Vietnamese name.
var vietnameseWeekdays = map[time.Weekday]string{
	time.Monday:    "Thứ Hai",
	time.Tuesday:   "Thứ Ba",
	time.Wednesday: "Thứ Tư",
	time.Thursday:  "Thứ Năm",
	time.Friday:    "Thứ Sáu",
	time.Saturday:  "Thứ Bảy",
	time.Sunday:    "Chủ Nhật",
}

// FormatDate renders a date as a Vietnamese human-readable string,
// e.g. "Thứ Bảy, ngày 12/04/2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, ngày %02d/%02d/%04d", vietnameseWeekdays[t.Weekday()], t.Day(), int(t.Month()), t.Year())
}
