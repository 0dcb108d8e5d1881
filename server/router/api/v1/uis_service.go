package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/studymate/studymate/server/internal/errors"
)

// uisTokenHeader carries the university portal token on authenticated
// requests. The token is held by the client only; the server never stores
// university credentials or sessions.
const uisTokenHeader = "X-UIS-Token"

type uisLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type uisLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Username    string `json:"username"`
}

type semesterResponse struct {
	SemesterID int    `json:"semester_id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// UISLogin proxies the password grant to the university portal and hands the
// token back to the client.
func (s *APIV1Service) UISLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req uisLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "university username and password are required")
	}

	result, err := s.UIS.Login(ctx, req.Username, req.Password)
	if err != nil {
		return uisHTTPError(err)
	}

	return c.JSON(http.StatusOK, uisLoginResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		Username:    result.UserName,
	})
}

// UISSemester returns the semester containing today, resolved from the
// portal's semester list.
func (s *APIV1Service) UISSemester(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Request().Header.Get(uisTokenHeader)
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing "+uisTokenHeader+" header")
	}

	semester, err := s.UIS.CurrentSemester(ctx, token, s.Now())
	if err != nil {
		return uisHTTPError(err)
	}

	return c.JSON(http.StatusOK, semesterResponse{
		SemesterID: semester.HocKy,
		Name:       semester.TenHocKy,
		StartDate:  semester.NgayBatDau,
		EndDate:    semester.NgayKetThuc,
	})
}

// uisHTTPError maps pipeline error codes onto HTTP statuses.
func uisHTTPError(err error) *echo.HTTPError {
	switch apperrors.GetCodeFromError(err, "") {
	case apperrors.ErrCodeUISLoginFailed:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
	case apperrors.ErrCodeUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, "university session expired, log in again").SetInternal(err)
	case apperrors.ErrCodeUISUnavailable:
		return echo.NewHTTPError(http.StatusBadGateway, "university system is unreachable").SetInternal(err)
	case apperrors.ErrCodeInvalidArgument:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "unexpected university system error").SetInternal(err)
	}
}
