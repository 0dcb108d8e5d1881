package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/studymate/studymate/plugin/ai"
	"github.com/studymate/studymate/plugin/ai/classifier"
	serverai "github.com/studymate/studymate/server/ai"
	apperrors "github.com/studymate/studymate/server/internal/errors"
	"github.com/studymate/studymate/server/internal/observability"
	"github.com/studymate/studymate/server/service/exam"
	"github.com/studymate/studymate/server/service/schedule"
	"github.com/studymate/studymate/store"
)

const (
	// historyLimit bounds how many stored turns are replayed to the model.
	historyLimit = 10

	assistantSystemPrompt = `Bạn là trợ lý học tập cho sinh viên Học viện Công nghệ Bưu chính Viễn thông (PTIT).
Trả lời bằng tiếng Việt, ngắn gọn, chính xác và thân thiện.
Chỉ trả lời các câu hỏi liên quan đến học tập: môn học, điểm số, tài liệu, định hướng nghề nghiệp.
Nếu được cung cấp ngữ cảnh từ web hoặc tài liệu, ưu tiên dùng ngữ cảnh đó và trích dẫn nguồn khi phù hợp.`

	refusalReply = "Xin lỗi, mình chỉ hỗ trợ các câu hỏi liên quan đến học tập tại PTIT. " +
		"Bạn có thể hỏi về thời khóa biểu, lịch thi, điểm số, môn học hoặc định hướng nghề nghiệp nhé."

	llmDisabledReply = "Tính năng trả lời bằng AI hiện chưa được bật trên hệ thống. " +
		"Bạn vẫn có thể hỏi về thời khóa biểu và lịch thi."

	sessionExpiredReply = "Phiên đăng nhập hệ thống trường của bạn đã hết hạn. " +
		"Vui lòng đăng nhập lại bằng tài khoản sinh viên để xem thời khóa biểu và lịch thi."

	uisDownReply = "Hệ thống của trường hiện không phản hồi. Bạn thử lại sau ít phút nhé."
)

type askRequest struct {
	Question   string `json:"question"`
	ChatUID    string `json:"chat_id"`
	UISToken   string `json:"uis_token"`
	SemesterID int    `json:"semester_id"`
	WebSearch  bool   `json:"web_search_enabled"`
	FileUID    string `json:"file_id"`
}

type askResponse struct {
	Reply    string   `json:"reply"`
	Category string   `json:"category"`
	Method   string   `json:"method"`
	Sources  []string `json:"sources,omitempty"`
	ChatUID  string   `json:"chat_id,omitempty"`
}

// Ask answers one student question. Schedule and exam questions are served
// from the university API through the date resolver; everything else academic
// goes to the language model with optional web and document context.
func (s *APIV1Service) Ask(c echo.Context) error {
	ctx := c.Request().Context()

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	classification := s.Classifier.Classify(ctx, req.Question)
	observability.GlobalMetrics().RecordRequest("assistant." + string(classification.Category))

	resp := askResponse{
		Category: string(classification.Category),
		Method:   classification.Method,
	}

	switch classification.Category {
	case classifier.CategoryOther:
		resp.Reply = refusalReply
	case classifier.CategorySchedule:
		reply, err := s.answerSchedule(ctx, req)
		if err != nil {
			return err
		}
		resp.Reply = reply
	default:
		reply, sources, err := s.answerWithModel(ctx, c, req)
		if err != nil {
			return err
		}
		resp.Reply = reply
		resp.Sources = sources
	}

	if req.ChatUID != "" {
		if err := s.persistTurn(c, req, &resp); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// answerSchedule serves timetable and exam questions from the university API.
func (s *APIV1Service) answerSchedule(ctx context.Context, req askRequest) (string, error) {
	if req.UISToken == "" || req.SemesterID == 0 {
		return sessionExpiredReply, nil
	}

	ref := s.Resolver.Resolve(ctx, req.Question, s.Now())

	if s.Classifier.IsExamQuery(req.Question) {
		result, err := s.Exam.Lookup(ctx, exam.Session{Token: req.UISToken, SemesterID: req.SemesterID}, exam.Query{
			Reference: ref,
			Midterm:   s.Classifier.IsMidtermQuery(req.Question),
		})
		if err != nil {
			return scheduleErrorReply(err)
		}
		return exam.Format(result), nil
	}

	result, err := s.Schedule.Lookup(ctx, schedule.Session{Token: req.UISToken, SemesterID: req.SemesterID}, ref)
	if err != nil {
		return scheduleErrorReply(err)
	}
	return schedule.Format(result), nil
}

// scheduleErrorReply turns recoverable university API failures into guidance
// for the student; anything else surfaces as a server error.
func scheduleErrorReply(err error) (string, error) {
	switch apperrors.GetCodeFromError(err, "") {
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeUISLoginFailed:
		return sessionExpiredReply, nil
	case apperrors.ErrCodeUISUnavailable, apperrors.ErrCodeTimeout:
		return uisDownReply, nil
	default:
		return "", echo.NewHTTPError(http.StatusInternalServerError, "schedule lookup failed").SetInternal(err)
	}
}

// answerWithModel builds the model context and runs the chat completion.
func (s *APIV1Service) answerWithModel(ctx context.Context, c echo.Context, req askRequest) (string, []string, error) {
	if s.LLM == nil {
		return llmDisabledReply, nil, nil
	}

	system := assistantSystemPrompt
	var sources []string

	if req.WebSearch && s.WebSearch != nil {
		web := s.WebSearch.Gather(ctx, req.Question)
		if webContext := web.PromptContext(); webContext != "" {
			system += "\n\n" + webContext
			for _, result := range web.Results {
				sources = append(sources, result.URL)
			}
		}
	}

	if req.FileUID != "" {
		fileContext, err := s.fileContext(ctx, c, req)
		if err != nil {
			return "", nil, err
		}
		if fileContext != "" {
			system += "\n\n" + fileContext
		}
	}

	messages := []ai.Message{{Role: "system", Content: system}}
	messages = append(messages, s.historyMessages(ctx, c, req.ChatUID)...)
	messages = append(messages, ai.Message{Role: "user", Content: req.Question})

	reply, err := s.LLM.Chat(ctx, messages)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadGateway, "language model request failed").SetInternal(err)
	}
	return reply, sources, nil
}

// fileContext retrieves the most relevant chunks of the referenced document.
func (s *APIV1Service) fileContext(ctx context.Context, c echo.Context, req askRequest) (string, error) {
	if s.Indexer == nil {
		return "", nil
	}
	user := currentUser(c)
	file, err := s.Store.GetUserFile(ctx, &store.FindUserFile{UID: &req.FileUID, CreatorID: &user.ID})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to look up file").SetInternal(err)
	}
	if file == nil {
		return "", echo.NewHTTPError(http.StatusNotFound, "file not found")
	}
	if file.Status != store.FileStatusReady {
		return "", echo.NewHTTPError(http.StatusConflict, "file is not indexed yet")
	}

	matches, err := s.Indexer.Retrieve(ctx, user.ID, &file.ID, req.Question, 0)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to search file").SetInternal(err)
	}
	return serverai.PromptContext(matches), nil
}

// historyMessages replays the tail of the chat so the model keeps context.
// Failures degrade to an empty history rather than failing the question.
func (s *APIV1Service) historyMessages(ctx context.Context, c echo.Context, chatUID string) []ai.Message {
	if chatUID == "" {
		return nil
	}
	user := currentUser(c)
	chat, err := s.Store.GetChat(ctx, &store.FindChat{UID: &chatUID, CreatorID: &user.ID})
	if err != nil || chat == nil {
		return nil
	}

	stored, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{ChatID: &chat.ID})
	if err != nil {
		return nil
	}
	if len(stored) > historyLimit {
		stored = stored[len(stored)-historyLimit:]
	}

	messages := make([]ai.Message, 0, len(stored))
	for _, message := range stored {
		role := "user"
		if message.Role == store.ChatMessageRoleAssistant {
			role = "assistant"
		}
		messages = append(messages, ai.Message{Role: role, Content: message.Content})
	}
	return messages
}

// persistTurn stores the question and the answer in the referenced chat.
func (s *APIV1Service) persistTurn(c echo.Context, req askRequest, resp *askResponse) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	chat, err := s.Store.GetChat(ctx, &store.FindChat{UID: &req.ChatUID, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up chat").SetInternal(err)
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	now := s.Now().Unix()
	if _, err := s.Store.CreateChatMessage(ctx, &store.ChatMessage{
		UID:       shortuuid.New(),
		ChatID:    chat.ID,
		Role:      store.ChatMessageRoleUser,
		Content:   req.Question,
		CreatedTs: now,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save message").SetInternal(err)
	}

	var sourcesJSON string
	if len(resp.Sources) > 0 {
		if encoded, err := json.Marshal(resp.Sources); err == nil {
			sourcesJSON = string(encoded)
		}
	}
	if _, err := s.Store.CreateChatMessage(ctx, &store.ChatMessage{
		UID:       shortuuid.New(),
		ChatID:    chat.ID,
		Role:      store.ChatMessageRoleAssistant,
		Content:   resp.Reply,
		Sources:   sourcesJSON,
		Category:  resp.Category,
		CreatedTs: now,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save message").SetInternal(err)
	}

	if _, err := s.Store.UpdateChat(ctx, &store.UpdateChat{ID: chat.ID, UpdatedTs: &now}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update chat").SetInternal(err)
	}

	resp.ChatUID = chat.UID
	return nil
}
