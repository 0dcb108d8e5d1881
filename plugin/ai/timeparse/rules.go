package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Pattern families, all matched against normalized (lowercase, accent
// stripped) text. Ordered from most to least specific: explicit numeric
// dates must win over bare weekday tokens.
var (
	// "tuan ... ngay DD/MM", "tuan DD/MM", "tuan DD thang MM [nam YYYY]"
	weekWithFullDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`tuan.*?ngay[\s:]*(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?`),
		regexp.MustCompile(`tuan[\s:]*(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?`),
		regexp.MustCompile(`tuan[\s:]*(\d{1,2})\s+thang[\s:]*(\d{1,2})(?:\s+nam[\s:]*(\d{4}))?`),
	}

	// "ngay DD thang MM [nam YYYY]"
	dayMonthWordRe = regexp.MustCompile(`ngay[\s:]*(\d{1,2})\s+thang[\s:]*(\d{1,2})(?:\s+nam[\s:]*(\d{4}))?`)

	// "thang MM ngay DD" month-first phrasing
	monthFirstRe = regexp.MustCompile(`thang[\s:]*(\d{1,2})\s+ngay[\s:]*(\d{1,2})(?:\s+nam[\s:]*(\d{4}))?`)

	// DD/MM or DD/MM/YYYY anywhere in text
	slashDateRe = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?`)

	// "tuan [co] ngay DD" and its abbreviated spellings (t, tn, ng)
	weekContainingDayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`tuan\s*(?:co\s*)?ngay\s*(\d{1,2})`),
		regexp.MustCompile(`tuan.*?ngay\s*(\d{1,2})`),
		regexp.MustCompile(`tuan\s*(?:co\s+)?ng\s+(\d{1,2})`),
		regexp.MustCompile(`tuan\s+(\d{1,2})`),
		regexp.MustCompile(`\bt\s+(?:co\s+)?(?:ngay|ng)\s+(\d{1,2})`),
		regexp.MustCompile(`\btn\s+(?:co\s+)?(?:ngay|ng)\s+(\d{1,2})`),
	}

	// "ngay DD" with no month following
	dayOnlyRe = regexp.MustCompile(`(ngay\s*(\d{1,2}))(?:[^0-9/-]|$)`)

	// Weekday spellings: thu 2..8, t2..t8, named forms, chu nhat / cn
	weekdayDigitRe = regexp.MustCompile(`\bthu?\s*([2-8])\b`)
	weekdayShortRe = regexp.MustCompile(`\bt([2-8])\b`)
	weekdayNameRe  = regexp.MustCompile(`thu\s*(hai|bay|ba|tu|nam|sau)`)
	sundayRe       = regexp.MustCompile(`chu\s*nhat|\bcn\b`)

	// Relative-week qualifiers
	qualNextRe = regexp.MustCompile(`tuan\s*(sau|toi)`)
	qualPrevRe = regexp.MustCompile(`tuan\s*truoc`)
	qualThisRe = regexp.MustCompile(`tuan\s*nay`)

	// "thu 100" style out-of-range weekday numerals
	invalidWeekdayRe = regexp.MustCompile(`\bthu?\s*(\d+)`)
)

// weekdayNameIndex maps named weekday spellings to ISO index (Monday=0).
var weekdayNameIndex = map[string]int{
	"hai": 0, "ba": 1, "tu": 2, "nam": 3, "sau": 4, "bay": 5,
}

// dateKeywords gates the AI fallback: without one of these the text is not
// date-related and resolution short-circuits to the default.
var dateKeywords = []string{
	"hom nay", "ngay mai", "hom qua", "thu", "tuan", "thang", "lich",
	"ngay", "mai", "kia", "mot", "today", "tomorrow", "yesterday",
	"schedule", "week", "month", "monday", "tuesday", "wednesday",
	"thursday", "friday", "saturday", "sunday", "chu nhat", "cn",
}

func containsDateKeyword(norm string) bool {
	for _, kw := range dateKeywords {
		if containsWholeWord(norm, kw) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// containsWholeWord reports whether word occurs in norm with no letter or
// digit adjacent on either side. Short accent-stripped tokens are otherwise
// false substrings of unrelated words: "qua" inside "quan trong", "mai"
// inside "email".
// leadingWord reports whether s starts with word as a complete word.
func leadingWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	return len(s) == len(word) || !isWordByte(s[len(word)])
}

func containsWholeWord(norm, word string) bool {
	for from := 0; ; {
		i := strings.Index(norm[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if (start == 0 || !isWordByte(norm[start-1])) && (end == len(norm) || !isWordByte(norm[end])) {
			return true
		}
		from = start + 1
	}
}

func containsWeekToken(norm string) bool {
	return strings.Contains(norm, "tuan")
}

func containsWeekdayToken(norm string) bool {
	return weekdayDigitRe.MatchString(norm) || weekdayShortRe.MatchString(norm) ||
		weekdayNameRe.MatchString(norm) || sundayRe.MatchString(norm)
}

// hasInvalidWeekday reports a "thu N" reference with N outside 2..8.
func hasInvalidWeekday(norm string) bool {
	m := invalidWeekdayRe.FindStringSubmatch(norm)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return n > 8
}

// makeDate builds a date and verifies it round-trips, rejecting overflows
// like February 30 that time.Date would silently normalize.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// resolveDayOfMonth resolves a bare day number against the current month,
// rolling to the next month when the day has passed (future intent
// heuristic, only for small day numbers) or does not exist this month.
func resolveDayOfMonth(day int, today time.Time) (time.Time, bool) {
	nextMonth := func() (time.Time, bool) {
		month := int(today.Month()) + 1
		year := today.Year()
		if month > 12 {
			month = 1
			year++
		}
		return makeDate(year, month, day, today.Location())
	}

	target, ok := makeDate(today.Year(), int(today.Month()), day, today.Location())
	if !ok {
		return nextMonth()
	}
	if target.Before(dateOnly(today)) && day < 15 {
		if rolled, ok := nextMonth(); ok {
			return rolled, true
		}
	}
	return target, true
}

// parseMatchedDate converts a day/month/[year] submatch into a date.
func parseMatchedDate(m []string, today time.Time) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := today.Year()
	if len(m) > 3 && m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return makeDate(year, month, day, today.Location())
}

// rule is one recognizer: normalized text in, an optional reference out.
type rule func(norm string, today time.Time) (DateReference, bool)

// numericRules are the precise rules that always run before the AI
// fallback gate.
var numericRules = []rule{
	ruleExplicitDayMonth,
	ruleSlashDate,
	ruleWeekContainingDay,
	ruleDayOnly,
}

// keywordRules are the post-fallback safety net. Week references run before
// day words so that "tuan sau co mot buoi hoc" reads as next week rather
// than as the standalone day word "mot".
var keywordRules = []rule{
	ruleRelativeWeek,
	ruleRelativeDay,
	ruleWeekday,
}

// ruleExplicitDayMonth handles full Vietnamese numeric dates, escalating to
// the enclosing week when a week-indicator token accompanies the date.
func ruleExplicitDayMonth(norm string, today time.Time) (DateReference, bool) {
	for _, re := range weekWithFullDatePatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		target, ok := parseMatchedDate(m, today)
		if !ok {
			continue
		}
		start, end := weekOf(target)
		return span(start, end, TypeSpecificWeek, m[0]), true
	}

	m := dayMonthWordRe.FindStringSubmatch(norm)
	if m == nil {
		return DateReference{}, false
	}
	target, ok := parseMatchedDate(m, today)
	if !ok {
		return DateReference{}, false
	}
	if containsWeekToken(norm) {
		start, end := weekOf(target)
		return span(start, end, TypeSpecificWeek, m[0]), true
	}
	return single(target, TypeSpecificDate, m[0]), true
}

// ruleSlashDate handles DD/MM[/YYYY] and the month-first "thang M ngay D"
// phrasing.
func ruleSlashDate(norm string, today time.Time) (DateReference, bool) {
	if m := monthFirstRe.FindStringSubmatch(norm); m != nil {
		day, _ := strconv.Atoi(m[2])
		month, _ := strconv.Atoi(m[1])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if target, ok := makeDate(year, month, day, today.Location()); ok {
			return single(target, TypeSpecificDate, m[0]), true
		}
	}

	m := slashDateRe.FindStringSubmatch(norm)
	if m == nil {
		return DateReference{}, false
	}
	target, ok := parseMatchedDate(m, today)
	if !ok {
		return DateReference{}, false
	}
	return single(target, TypeSpecificDate, m[0]), true
}

// ruleWeekContainingDay handles the "tuan co ngay N" idiom and its
// abbreviated spellings, expanding the day to its Monday-Sunday week.
func ruleWeekContainingDay(norm string, today time.Time) (DateReference, bool) {
	for _, re := range weekContainingDayPatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		target, ok := resolveDayOfMonth(day, today)
		if !ok {
			continue
		}
		start, end := weekOf(target)
		return span(start, end, TypeSpecificWeek, m[0]), true
	}
	return DateReference{}, false
}

// ruleDayOnly handles "ngay N" with no month, using the same rollover
// heuristic as the week idiom.
func ruleDayOnly(norm string, today time.Time) (DateReference, bool) {
	m := dayOnlyRe.FindStringSubmatch(norm)
	if m == nil {
		return DateReference{}, false
	}
	day, _ := strconv.Atoi(m[2])
	target, ok := resolveDayOfMonth(day, today)
	if !ok {
		return DateReference{}, false
	}
	if containsWeekToken(norm) {
		start, end := weekOf(target)
		return span(start, end, TypeSpecificWeek, m[1]), true
	}
	return single(target, TypeSpecificDate, m[1]), true
}

// relativeDayWords maps relative day keywords (accent-stripped Vietnamese
// and English) to day offsets from today. Multiword phrases match as
// substrings; the bare single-word spellings only match as whole words so
// "qua" in "quan trong" or "mai" in "email" do not read as dates.
var relativeDayWords = []struct {
	t       ReferenceType
	offset  int
	phrases []string
	words   []string
}{
	{TypeToday, 0, []string{"hom nay", "ngay hom nay", "this day"}, []string{"hnay", "today"}},
	{TypeTomorrow, 1, []string{"ngay mai", "hom sau"}, []string{"tomorrow", "mai"}},
	{TypeYesterday, -1, []string{"hom qua"}, []string{"yesterday", "qua"}},
	{TypeDayAfterTomorrow, 2, []string{"ngay kia", "ngay mot"}, []string{"kia", "mot"}},
}

func ruleRelativeDay(norm string, today time.Time) (DateReference, bool) {
	for _, group := range relativeDayWords {
		for _, pattern := range group.phrases {
			if strings.Contains(norm, pattern) {
				return single(dateOnly(today).AddDate(0, 0, group.offset), group.t, pattern), true
			}
		}
		for _, word := range group.words {
			if containsWholeWord(norm, word) {
				return single(dateOnly(today).AddDate(0, 0, group.offset), group.t, word), true
			}
		}
	}
	return DateReference{}, false
}

// relativeWeekWords maps relative week/month keywords to range builders.
var relativeWeekWords = []struct {
	t        ReferenceType
	patterns []string
}{
	{TypeThisWeek, []string{"tuan nay", "trong tuan", "this week"}},
	{TypeNextWeek, []string{"tuan sau", "tuan toi", "next week"}},
	{TypeLastWeek, []string{"tuan truoc", "last week"}},
	{TypeThisMonth, []string{"thang nay", "this month"}},
}

// ruleRelativeWeek handles this/next/last week and this month. Inputs that
// also name a weekday ("thu 7 tuan nay") are left to the weekday rule,
// which resolves to a single day inside the qualified week.
func ruleRelativeWeek(norm string, today time.Time) (DateReference, bool) {
	if containsWeekdayToken(norm) {
		return DateReference{}, false
	}

	for _, group := range relativeWeekWords {
		for _, pattern := range group.patterns {
			if !strings.Contains(norm, pattern) {
				continue
			}
			monday := mondayOf(today)
			switch group.t {
			case TypeThisWeek:
				return span(monday, monday.AddDate(0, 0, 6), TypeThisWeek, pattern), true
			case TypeNextWeek:
				next := monday.AddDate(0, 0, 7)
				return span(next, next.AddDate(0, 0, 6), TypeNextWeek, pattern), true
			case TypeLastWeek:
				prev := monday.AddDate(0, 0, -7)
				return span(prev, prev.AddDate(0, 0, 6), TypeLastWeek, pattern), true
			case TypeThisMonth:
				start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
				end := start.AddDate(0, 1, -1)
				return span(start, end, TypeThisMonth, pattern), true
			}
		}
	}
	return DateReference{}, false
}

// findWeekday locates a weekday reference and returns its ISO index
// (Monday=0) and the matched span.
func findWeekday(norm string) (int, string, bool) {
	if m := weekdayDigitRe.FindStringSubmatch(norm); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n == 8 {
			return 6, m[0], true
		}
		return n - 2, m[0], true
	}
	if m := weekdayShortRe.FindStringSubmatch(norm); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n == 8 {
			return 6, m[0], true
		}
		return n - 2, m[0], true
	}
	if loc := sundayRe.FindString(norm); loc != "" {
		return 6, loc, true
	}
	if m := weekdayNameRe.FindStringSubmatch(norm); m != nil {
		return weekdayNameIndex[m[1]], m[0], true
	}
	return 0, "", false
}

// ruleWeekday handles a named weekday with an optional relative-week
// qualifier. The target is the current week's Monday plus the weekday
// index plus seven days per week of offset. Bare weekday names that have
// already passed this week roll forward to the next occurrence; qualified
// forms use the stated week literally.
func ruleWeekday(norm string, today time.Time) (DateReference, bool) {
	idx, matched, ok := findWeekday(norm)
	if !ok {
		return DateReference{}, false
	}

	weekOffset := 0
	qualified := false
	switch {
	case qualNextRe.MatchString(norm):
		weekOffset, qualified = 1, true
		matched = matched + " " + qualNextRe.FindString(norm)
	case qualPrevRe.MatchString(norm):
		weekOffset, qualified = -1, true
		matched = matched + " " + qualPrevRe.FindString(norm)
	case qualThisRe.MatchString(norm):
		qualified = true
		matched = matched + " " + qualThisRe.FindString(norm)
	default:
		// "thu 7 nay" and "thu 2 sau" style bare qualifiers right after the
		// weekday. Bare "toi" is not accepted here: after accent stripping it
		// collides with the pronoun in "thu 2 toi co lich gi".
		if i := strings.Index(norm, matched); i >= 0 {
			rest := strings.TrimLeft(norm[i+len(matched):], " ")
			switch {
			case leadingWord(rest, "nay"):
				qualified = true
				matched = matched + " nay"
			case leadingWord(rest, "sau"):
				weekOffset, qualified = 1, true
				matched = matched + " sau"
			}
		}
	}

	target := mondayOf(today).AddDate(0, 0, idx+7*weekOffset)
	if !qualified && target.Before(dateOnly(today)) {
		target = target.AddDate(0, 0, 7)
	}
	return single(target, weekdayTypes[idx], matched), true
}
