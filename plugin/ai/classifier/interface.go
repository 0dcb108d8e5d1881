// Package classifier categorizes student questions by academic topic.
package classifier

import "context"

// Category is the topic assigned to a student question.
type Category string

const (
	CategorySchedule Category = "schedule" // timetables, exam dates, classrooms
	CategoryGrades   Category = "grades"   // scores, GPA, academic performance
	CategoryCourses  Category = "courses"  // course content, materials, lecturers
	CategoryCareer   Category = "career"   // career paths, employment
	CategoryGeneral  Category = "general"  // other academic advice
	CategoryOther    Category = "other"    // non-academic, politely refused
)

// Result describes a classification outcome.
type Result struct {
	Category   Category
	Confidence float64
	// Method records which layer produced the result: "keyword", "ai",
	// "ai-text" or "ai-fallback".
	Method string
	// Keyword is the matched keyword when Method is "keyword".
	Keyword string
}

// Classifier assigns a topic category to a question.
type Classifier interface {
	Classify(ctx context.Context, question string) Result
}
