package uis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/studymate/studymate/server/internal/errors"
)

// API is the set of university operations the services consume. The concrete
// client talks HTTP; tests substitute a fake.
type API interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CurrentSemester(ctx context.Context, token string, today time.Time) (*Semester, error)
	FetchWeekSchedule(ctx context.Context, token string, semesterID int) (*SemesterSchedule, error)
	FetchExamSchedule(ctx context.Context, token string, semesterID int, midterm bool) ([]Exam, error)
}

const (
	loginPath    = "/api/auth/login"
	semesterPath = "/api/sch/w-locdshockytkbuser"
	schedulePath = "/api/sch/w-locdstkbtuanusertheohocky"
	examPath     = "/api/epm/w-locdslichthisvtheohocky"

	tokenLifetime = 2 * time.Hour
	userAgent     = "StudyMate/1.0"
)

// Client is the HTTP client for the university API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. A zero timeout
// defaults to 15 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login authenticates a student with the form-encoded password grant.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.UISUnavailable("failed to create login request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.UISUnavailable("login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		var failure struct {
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		msg := failure.ErrorDescription
		if msg == "" {
			msg = "invalid credentials"
		}
		return nil, apperrors.UISLoginFailed(msg)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.UISUnavailable("unexpected login status "+resp.Status, nil)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.UISUnavailable("failed to decode login response", err)
	}
	if result.AccessToken == "" {
		return nil, apperrors.UISLoginFailed("invalid credentials")
	}
	result.Expiry = time.Now().Add(tokenLifetime)
	return &result, nil
}

// CurrentSemester returns the semester whose date range contains today,
// falling back to the most recent one the API lists first.
func (c *Client) CurrentSemester(ctx context.Context, token string, today time.Time) (*Semester, error) {
	payload := map[string]any{
		"filter": map[string]any{"is_tieng_anh": nil},
		"additional": map[string]any{
			"paging":   map[string]any{"limit": 100, "page": 1},
			"ordering": []map[string]any{{"name": "hoc_ky", "order_type": 1}},
		},
	}

	var response struct {
		Data struct {
			DsHocKy []Semester `json:"ds_hoc_ky"`
		} `json:"data"`
	}
	if err := c.post(ctx, semesterPath, token, payload, &response); err != nil {
		return nil, err
	}
	if len(response.Data.DsHocKy) == 0 {
		return nil, apperrors.NotFound("no semesters returned")
	}

	for _, semester := range response.Data.DsHocKy {
		if semester.Contains(today) {
			return &semester, nil
		}
	}
	return &response.Data.DsHocKy[0], nil
}

// FetchWeekSchedule returns the full weekly timetable for a semester.
func (c *Client) FetchWeekSchedule(ctx context.Context, token string, semesterID int) (*SemesterSchedule, error) {
	payload := map[string]any{
		"filter": map[string]any{"hoc_ky": semesterID, "ten_hoc_ky": ""},
		"additional": map[string]any{
			"paging":   map[string]any{"limit": 100, "page": 1},
			"ordering": []map[string]any{{"name": nil, "order_type": nil}},
		},
	}

	var response struct {
		Data SemesterSchedule `json:"data"`
	}
	if err := c.post(ctx, schedulePath, token, payload, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// FetchExamSchedule returns the exam list for a semester. midterm selects
// the midterm round instead of finals.
func (c *Client) FetchExamSchedule(ctx context.Context, token string, semesterID int, midterm bool) ([]Exam, error) {
	payload := map[string]any{
		"filter": map[string]any{"hoc_ky": semesterID, "is_giua_ky": midterm},
		"additional": map[string]any{
			"paging":   map[string]any{"limit": 100, "page": 1},
			"ordering": []map[string]any{{"name": nil, "order_type": nil}},
		},
	}

	var response struct {
		Data struct {
			DsLichThi []Exam `json:"ds_lich_thi"`
		} `json:"data"`
	}
	if err := c.post(ctx, examPath, token, payload, &response); err != nil {
		return nil, err
	}
	return response.Data.DsLichThi, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.UISUnavailable("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.UISUnavailable("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.UISUnavailable("request to "+path+" failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return apperrors.Unauthorized("university session expired")
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return apperrors.UISUnavailable("unexpected status "+resp.Status+" from "+path, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.UISUnavailable("failed to decode response from "+path, err)
	}
	return nil
}
