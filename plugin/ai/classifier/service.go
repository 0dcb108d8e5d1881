package classifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/studymate/studymate/plugin/ai"
)

// Service layers keyword matching over model-based classification. The
// keyword layer answers schedule questions without a model round trip; the
// blocklist short-circuits non-academic topics the same way.
type Service struct {
	keywords *KeywordMatcher
	llm      *LLMClassifier
}

// NewService creates the two-layer classifier. llm may be nil, in which
// case unmatched questions fall through to the general category.
func NewService(llm ai.LLMService, timeout time.Duration) *Service {
	s := &Service{keywords: NewKeywordMatcher()}
	if llm != nil {
		s.llm = NewLLMClassifier(llm, timeout)
	}
	return s
}

// Classify assigns a category to the question.
func (s *Service) Classify(ctx context.Context, question string) Result {
	if !s.keywords.IsAcademic(question) {
		return Result{Category: CategoryOther, Confidence: 0.9, Method: "keyword"}
	}

	if keyword, ok := s.keywords.MatchSchedule(question); ok {
		slog.Debug("keyword classification", "keyword", keyword)
		return Result{Category: CategorySchedule, Confidence: 0.9, Method: "keyword", Keyword: keyword}
	}

	if s.llm == nil {
		return Result{Category: CategoryGeneral, Confidence: 0.5, Method: "keyword"}
	}
	return s.llm.Classify(ctx, question)
}

// IsExamQuery reports whether a schedule question targets exams.
func (s *Service) IsExamQuery(question string) bool {
	return s.keywords.IsExamQuery(question)
}

// IsMidtermQuery reports whether an exam question asks about midterms.
func (s *Service) IsMidtermQuery(question string) bool {
	return s.keywords.IsMidtermQuery(question)
}
