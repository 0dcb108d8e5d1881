package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/internal/profile"
	"github.com/studymate/studymate/plugin/ai/classifier"
	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/service/exam"
	"github.com/studymate/studymate/server/service/schedule"
	"github.com/studymate/studymate/server/uis"
	"github.com/studymate/studymate/store"
	"github.com/studymate/studymate/store/db/sqlite"
)

// testToday is a Thursday inside the fake semester.
var testToday = time.Date(2025, 4, 10, 8, 0, 0, 0, time.Local)

// fakeUIS scripts the university API per test.
type fakeUIS struct {
	LoginFunc             func(ctx context.Context, username, password string) (*uis.LoginResult, error)
	CurrentSemesterFunc   func(ctx context.Context, token string, today time.Time) (*uis.Semester, error)
	FetchWeekScheduleFunc func(ctx context.Context, token string, semesterID int) (*uis.SemesterSchedule, error)
	FetchExamScheduleFunc func(ctx context.Context, token string, semesterID int, midterm bool) ([]uis.Exam, error)
}

func (f *fakeUIS) Login(ctx context.Context, username, password string) (*uis.LoginResult, error) {
	return f.LoginFunc(ctx, username, password)
}

func (f *fakeUIS) CurrentSemester(ctx context.Context, token string, today time.Time) (*uis.Semester, error) {
	return f.CurrentSemesterFunc(ctx, token, today)
}

func (f *fakeUIS) FetchWeekSchedule(ctx context.Context, token string, semesterID int) (*uis.SemesterSchedule, error) {
	return f.FetchWeekScheduleFunc(ctx, token, semesterID)
}

func (f *fakeUIS) FetchExamSchedule(ctx context.Context, token string, semesterID int, midterm bool) ([]uis.Exam, error) {
	return f.FetchExamScheduleFunc(ctx, token, semesterID, midterm)
}

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo, *fakeUIS) {
	t.Helper()

	p := &profile.Profile{
		Mode:   "prod",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "api_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	fake := &fakeUIS{}
	service := &APIV1Service{
		Secret:     "test-secret",
		Profile:    p,
		Store:      st,
		UIS:        fake,
		Classifier: classifier.NewService(nil, 0),
		Resolver:   timeparse.NewResolver(nil),
		Schedule:   schedule.NewService(fake),
		Exam:       exam.NewService(fake),
		Now:        func() time.Time { return testToday },
	}

	e := echo.New()
	service.Register(e)
	return service, e, fake
}

func doJSON(e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// signupUser registers a user and returns their access token.
func signupUser(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: username,
		Password: "matkhau123",
		Nickname: "Sinh viên",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON[authResponse](t, rec).AccessToken
}

func TestSignupAndLogin(t *testing.T) {
	_, e, _ := newTestService(t)

	token := signupUser(t, e, "sv.b21dccn001")
	require.NotEmpty(t, token)

	// Duplicate username.
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: "sv.b21dccn001",
		Password: "matkhau123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Short password.
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: "sv.b21dccn002",
		Password: "abc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Username: "sv.b21dccn001",
		Password: "matkhau123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[authResponse](t, rec)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "sv.b21dccn001", resp.User.Username)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Username: "sv.b21dccn001",
		Password: "sai-mat-khau",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	_, e, _ := newTestService(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	_, e, _ := newTestService(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestChatCRUD(t *testing.T) {
	_, e, _ := newTestService(t)
	token := signupUser(t, e, "sv.b21dccn003")

	rec := doJSON(e, http.MethodPost, "/api/v1/chats", token, createChatRequest{Title: "Ôn thi giải tích"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeJSON[chatResponse](t, rec)
	require.NotEmpty(t, created.UID)
	assert.Equal(t, "Ôn thi giải tích", created.Title)

	// Empty title falls back to the default.
	rec = doJSON(e, http.MethodPost, "/api/v1/chats", token, createChatRequest{})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Cuộc trò chuyện mới", decodeJSON[chatResponse](t, rec).Title)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chats := decodeJSON[[]chatResponse](t, rec)
	require.Len(t, chats, 2)

	pinned := true
	title := "Giải tích 1"
	rec = doJSON(e, http.MethodPatch, "/api/v1/chats/"+created.UID, token, updateChatRequest{Title: &title, Pinned: &pinned})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeJSON[chatResponse](t, rec)
	assert.Equal(t, "Giải tích 1", updated.Title)
	assert.True(t, updated.Pinned)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats/"+created.UID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/v1/chats/"+created.UID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats/"+created.UID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatScopedToOwner(t *testing.T) {
	_, e, _ := newTestService(t)
	ownerToken := signupUser(t, e, "sv.owner")
	otherToken := signupUser(t, e, "sv.other")

	rec := doJSON(e, http.MethodPost, "/api/v1/chats", ownerToken, createChatRequest{Title: "Riêng tư"})
	require.Equal(t, http.StatusCreated, rec.Code)
	chat := decodeJSON[chatResponse](t, rec)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats/"+chat.UID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/chats", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeJSON[[]chatResponse](t, rec))
}

func TestUISLoginProxy(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.b21dccn004")

	fake.LoginFunc = func(ctx context.Context, username, password string) (*uis.LoginResult, error) {
		if password != "dung-mat-khau" {
			return nil, fmt.Errorf("unexpected password %q", password)
		}
		return &uis.LoginResult{AccessToken: "uis-token", ExpiresIn: 7200, UserName: username}, nil
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/uis/login", token, uisLoginRequest{
		Username: "B21DCCN004",
		Password: "dung-mat-khau",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[uisLoginResponse](t, rec)
	assert.Equal(t, "uis-token", resp.AccessToken)
	assert.Equal(t, 7200, resp.ExpiresIn)
}

func TestUISSemester(t *testing.T) {
	_, e, fake := newTestService(t)
	token := signupUser(t, e, "sv.b21dccn005")

	fake.CurrentSemesterFunc = func(ctx context.Context, uisToken string, today time.Time) (*uis.Semester, error) {
		assert.Equal(t, "uis-token", uisToken)
		return &uis.Semester{
			HocKy:       20242,
			TenHocKy:    "Học kỳ 2 năm 2024-2025",
			NgayBatDau:  "01/02/2025",
			NgayKetThuc: "30/06/2025",
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uis/semester", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	req.Header.Set(uisTokenHeader, "uis-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[semesterResponse](t, rec)
	assert.Equal(t, 20242, resp.SemesterID)
	assert.Equal(t, "Học kỳ 2 năm 2024-2025", resp.Name)
}
