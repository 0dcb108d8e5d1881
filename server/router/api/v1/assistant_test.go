package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/plugin/ai"
	apperrors "github.com/studymate/studymate/server/internal/errors"
	"github.com/studymate/studymate/server/uis"
)

// testTimetable has one class on testToday (Thursday 10/04/2025).
func testTimetable() *uis.SemesterSchedule {
	return &uis.SemesterSchedule{
		HocKy: uis.Semester{
			HocKy:       20242,
			TenHocKy:    "Học kỳ 2 năm 2024-2025",
			NgayBatDau:  "01/02/2025",
			NgayKetThuc: "30/06/2025",
		},
		Weeks: []uis.Week{
			{
				Tuan:        10,
				NgayBatDau:  "07/04/2025",
				NgayKetThuc: "13/04/2025",
				Classes: []uis.ClassEntry{
					{
						TenMon:       "Giải tích 1",
						MaMon:        "BAS1203",
						MaPhong:      "2B11",
						NgayHoc:      "2025-04-10T00:00:00",
						ThuKieuSo:    5,
						TietBatDau:   1,
						SoTiet:       4,
						TenGiangVien: "Nguyễn Văn A",
					},
				},
			},
		},
	}
}

func TestAskRefusesNonAcademic(t *testing.T) {
	_, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask01")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Làm sao để tỏ tình với người yêu?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[askResponse](t, rec)
	assert.Equal(t, "other", resp.Category)
	assert.Equal(t, refusalReply, resp.Reply)
}

func TestAskScheduleToday(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask02")

	fake.FetchWeekScheduleFunc = func(ctx context.Context, uisToken string, semesterID int) (*uis.SemesterSchedule, error) {
		assert.Equal(t, "uis-token", uisToken)
		assert.Equal(t, 20242, semesterID)
		return testTimetable(), nil
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Hôm nay tôi có lịch học gì?",
		UISToken:   "uis-token",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[askResponse](t, rec)
	assert.Equal(t, "schedule", resp.Category)
	assert.Equal(t, "keyword", resp.Method)
	assert.Contains(t, resp.Reply, "Giải tích 1")
	assert.Contains(t, resp.Reply, "2B11")
	assert.Contains(t, resp.Reply, "Thứ Năm")
}

func TestAskScheduleFreeDay(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask03")

	fake.FetchWeekScheduleFunc = func(ctx context.Context, uisToken string, semesterID int) (*uis.SemesterSchedule, error) {
		return testTimetable(), nil
	}

	// Tomorrow (Friday) has no classes in the fake timetable.
	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Ngày mai có lịch học không?",
		UISToken:   "uis-token",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[askResponse](t, rec)
	assert.Contains(t, resp.Reply, "Không có lớp học nào")
}

func TestAskExamSchedule(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask04")

	fake.FetchExamScheduleFunc = func(ctx context.Context, uisToken string, semesterID int, midterm bool) ([]uis.Exam, error) {
		assert.False(t, midterm)
		return []uis.Exam{
			{
				TenMon:      "Giải tích 1",
				MaMon:       "BAS1203",
				HinhThucThi: "Tự luận",
				SoPhut:      90,
				GioBatDau:   "07:00",
				NgayThi:     "15/05/2025",
				MaPhong:     "2B11",
				DiaDiemThi:  "Cơ sở Hà Đông",
			},
		}, nil
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Lịch thi cuối kỳ của tôi thế nào?",
		UISToken:   "uis-token",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[askResponse](t, rec)
	assert.Equal(t, "schedule", resp.Category)
	assert.Contains(t, resp.Reply, "Giải tích 1")
	assert.Contains(t, resp.Reply, "15/05/2025")
}

func TestAskMidtermExamSchedule(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask05")

	var gotMidterm bool
	fake.FetchExamScheduleFunc = func(ctx context.Context, uisToken string, semesterID int, midterm bool) ([]uis.Exam, error) {
		gotMidterm = midterm
		return nil, nil
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Lịch thi giữa kỳ của tôi",
		UISToken:   "uis-token",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotMidterm)
	assert.Contains(t, decodeJSON[askResponse](t, rec).Reply, "Không tìm thấy lịch thi")
}

func TestAskScheduleWithoutSession(t *testing.T) {
	_, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask06")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Hôm nay tôi có lịch học gì?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionExpiredReply, decodeJSON[askResponse](t, rec).Reply)
}

func TestAskScheduleSessionExpired(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask07")

	fake.FetchWeekScheduleFunc = func(ctx context.Context, uisToken string, semesterID int) (*uis.SemesterSchedule, error) {
		return nil, apperrors.Unauthorized("token expired")
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Hôm nay tôi có lịch học gì?",
		UISToken:   "het-han",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionExpiredReply, decodeJSON[askResponse](t, rec).Reply)
}

func TestAskScheduleUISDown(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.ask08")

	fake.FetchWeekScheduleFunc = func(ctx context.Context, uisToken string, semesterID int) (*uis.SemesterSchedule, error) {
		return nil, apperrors.UISUnavailable("connect refused", nil)
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question:   "Hôm nay tôi có lịch học gì?",
		UISToken:   "uis-token",
		SemesterID: 20242,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uisDownReply, decodeJSON[askResponse](t, rec).Reply)
}

func TestAskGeneralWithModel(t *testing.T) {
	service, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask09")

	llm := ai.NewMockLLMService()
	llm.ChatFunc = func(ctx context.Context, messages []ai.Message) (string, error) {
		require.NotEmpty(t, messages)
		assert.Equal(t, "system", messages[0].Role)
		assert.Contains(t, messages[0].Content, "PTIT")
		return "GPA được tính theo thang điểm 4 từ điểm trung bình các môn.", nil
	}
	service.LLM = llm

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Cách tính GPA ở PTIT như thế nào?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[askResponse](t, rec)
	assert.Equal(t, "general", resp.Category)
	assert.Contains(t, resp.Reply, "GPA")
}

func TestAskGeneralWithoutModel(t *testing.T) {
	_, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask10")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Cách tính GPA ở PTIT như thế nào?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, llmDisabledReply, decodeJSON[askResponse](t, rec).Reply)
}

func TestAskPersistsTurn(t *testing.T) {
	service, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask11")

	llm := ai.NewMockLLMService()
	llm.ChatFunc = func(ctx context.Context, messages []ai.Message) (string, error) {
		return "Bạn nên ôn chương giới hạn trước.", nil
	}
	service.LLM = llm

	rec := doJSON(e, http.MethodPost, "/api/v1/chats", token, createChatRequest{Title: "Ôn thi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	chat := decodeJSON[chatResponse](t, rec)

	rec = doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Nên ôn môn giải tích từ đâu?",
		ChatUID:  chat.UID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, chat.UID, decodeJSON[askResponse](t, rec).ChatUID)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats/"+chat.UID+"/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeJSON[[]chatMessageResponse](t, rec)
	require.Len(t, messages, 2)
	assert.Equal(t, "USER", messages[0].Role)
	assert.Equal(t, "Nên ôn môn giải tích từ đâu?", messages[0].Content)
	assert.Equal(t, "ASSISTANT", messages[1].Role)
	assert.Equal(t, "general", messages[1].Category)
}

func TestAskReplaysHistory(t *testing.T) {
	service, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask12")

	var seen []ai.Message
	llm := ai.NewMockLLMService()
	llm.ChatFunc = func(ctx context.Context, messages []ai.Message) (string, error) {
		seen = messages
		return "Tiếp tục với chương đạo hàm.", nil
	}
	service.LLM = llm

	rec := doJSON(e, http.MethodPost, "/api/v1/chats", token, createChatRequest{Title: "Ôn thi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	chat := decodeJSON[chatResponse](t, rec)

	first := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Nên ôn môn giải tích từ đâu?",
		ChatUID:  chat.UID,
	})
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{
		Question: "Sau đó thì sao?",
		ChatUID:  chat.UID,
	})
	require.Equal(t, http.StatusOK, second.Code)

	// system + 2 stored turns + new question.
	require.Len(t, seen, 4)
	assert.Equal(t, "user", seen[1].Role)
	assert.Equal(t, "assistant", seen[2].Role)
	assert.Equal(t, "Sau đó thì sao?", seen[3].Content)
}

func TestAskRequiresQuestion(t *testing.T) {
	_, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.ask13")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", token, askRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
