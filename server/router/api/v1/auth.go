package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/studymate/studymate/server/internal/observability"
	"github.com/studymate/studymate/store"
)

const (
	// AccessTokenDuration is the lifetime of an issued session token.
	AccessTokenDuration = 7 * 24 * time.Hour

	keyID          = "v1"
	tokenIssuer    = "studymate"
	userIDContext  = "user-id"
	userContextKey = "user"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Signup registers a local account. The password stored here is the
// StudyMate one; university credentials are never persisted.
func (s *APIV1Service) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "username and a password of at least 6 characters are required")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}

	now := s.Now().Unix()
	user, err := s.Store.CreateUser(ctx, &store.User{
		UID:          shortuuid.New(),
		Username:     req.Username,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		RowStatus:    store.Normal,
		CreatedTs:    now,
		UpdatedTs:    now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	return s.respondWithToken(c, http.StatusCreated, user)
}

// Login checks local credentials and issues a session token.
func (s *APIV1Service) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil || user.RowStatus == store.Archived {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	return s.respondWithToken(c, http.StatusOK, user)
}

func (s *APIV1Service) respondWithToken(c echo.Context, status int, user *store.User) error {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token").SetInternal(err)
	}
	return c.JSON(status, authResponse{
		User: userResponse{
			UID:      user.UID,
			Username: user.Username,
			Nickname: user.Nickname,
			Email:    user.Email,
		},
		AccessToken: token,
		ExpiresIn:   int64(AccessTokenDuration.Seconds()),
	})
}

func (s *APIV1Service) generateAccessToken(user *store.User) (string, error) {
	now := s.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(int(user.ID)),
		Audience:  jwt.ClaimStrings{tokenIssuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = keyID
	return token.SignedString([]byte(s.Secret))
}

// JWTMiddleware authenticates requests with a Bearer session token and
// places the user in the request context.
func (s *APIV1Service) JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims := &jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
				}
				return []byte(s.Secret), nil
			}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.Now))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
			}

			userID, err := strconv.Atoi(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed token subject")
			}
			id := int32(userID)
			user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &id})
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
			}
			if user == nil || user.RowStatus == store.Archived {
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer active")
			}

			c.Set(userIDContext, strconv.Itoa(int(user.ID)))
			c.Set(userContextKey, user)

			rc := observability.NewRequestContext(slog.Default(), "api", user.UID)
			c.SetRequest(c.Request().WithContext(observability.WithRequestContext(c.Request().Context(), rc)))

			return next(c)
		}
	}
}

// currentUser returns the authenticated user placed by JWTMiddleware.
func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}
