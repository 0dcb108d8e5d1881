package classifier

import (
	"strings"

	"github.com/studymate/studymate/plugin/ai/timeparse"
)

// KeywordMatcher implements the zero-latency rule layer: schedule keyword
// detection, exam intent probing, and the non-academic topic blocklist.
type KeywordMatcher struct {
	scheduleAccented  []string
	scheduleStripped  []string
	scheduleEnglish   []string
	examKeywords      []string
	midtermKeywords   []string
	nonAcademicTopics []string
}

// NewKeywordMatcher creates a matcher with the predefined keyword lists.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{
		scheduleAccented: []string{
			"lịch học", "thời khóa biểu", "lịch thi", "khi nào học", "tiết học",
			"phòng học", "khi nào thi", "lịch", "ngày thi", "ca thi",
		},
		scheduleStripped: []string{
			"lich hoc", "thoi khoa bieu", "lich thi", "khi nao hoc", "tiet hoc",
			"phong hoc", "khi nao thi", "lich", "ngay thi", "ca thi",
		},
		scheduleEnglish: []string{
			"schedule", "timetable", "class schedule", "exam schedule", "when is class",
			"classroom", "when is exam", "calendar", "exam date", "class time",
		},
		examKeywords: []string{
			"lich thi", "ngay thi", "ca thi", "mon thi", "phong thi",
			"exam", "thi cuoi ky", "thi giua ky",
		},
		midtermKeywords: []string{
			"giua ky", "midterm",
		},
		nonAcademicTopics: []string{
			"tinh yeu", "hen ho", "yeu duong", "tinh cam", "nguoi yeu",
			"chinh tri", "chinh phu", "bau cu",
			"tro choi", "game", "phim anh", "ca nhac", "giai tri",
			"ton giao", "than linh",
			"suc khoe", "benh tat", "kham benh",
			"tien bac", "dau tu", "chung khoan", "tien ma hoa",
			"co bac", "ca cuoc", "xo so",
			"love", "dating", "relationship", "girlfriend", "boyfriend",
			"politics", "government", "election",
			"movie", "music", "entertainment",
			"religion", "spiritual",
			"gambling", "betting", "lottery",
		},
	}
}

// MatchSchedule reports whether the question is schedule related, returning
// the matched keyword. Accented Vietnamese is checked first to prefer
// precise matches.
func (m *KeywordMatcher) MatchSchedule(question string) (string, bool) {
	lower := strings.ToLower(question)
	stripped := timeparse.Normalize(question)

	for _, keyword := range m.scheduleAccented {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}
	for _, keyword := range m.scheduleStripped {
		if strings.Contains(stripped, keyword) {
			return keyword, true
		}
	}
	for _, keyword := range m.scheduleEnglish {
		if strings.Contains(stripped, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// IsExamQuery reports whether a schedule question targets exams rather than
// classes.
func (m *KeywordMatcher) IsExamQuery(question string) bool {
	stripped := timeparse.Normalize(question)
	for _, keyword := range m.examKeywords {
		if strings.Contains(stripped, keyword) {
			return true
		}
	}
	return false
}

// IsMidtermQuery reports whether an exam question asks about midterms
// instead of finals.
func (m *KeywordMatcher) IsMidtermQuery(question string) bool {
	stripped := timeparse.Normalize(question)
	for _, keyword := range m.midtermKeywords {
		if strings.Contains(stripped, keyword) {
			return true
		}
	}
	return false
}

// IsAcademic reports whether the question stays within academic topics.
// The blocklist is matched on both the raw lowercase text and its
// accent-stripped form.
func (m *KeywordMatcher) IsAcademic(question string) bool {
	lower := strings.ToLower(question)
	stripped := timeparse.Normalize(question)
	for _, topic := range m.nonAcademicTopics {
		if strings.Contains(stripped, topic) || strings.Contains(lower, topic) {
			return false
		}
	}
	return true
}
