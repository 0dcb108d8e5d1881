// Package v1 serves the JSON API consumed by the StudyMate frontend.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/studymate/studymate/internal/profile"
	"github.com/studymate/studymate/plugin/ai"
	"github.com/studymate/studymate/plugin/ai/classifier"
	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/plugin/textextract"
	serverai "github.com/studymate/studymate/server/ai"
	"github.com/studymate/studymate/server/middleware"
	"github.com/studymate/studymate/server/service/exam"
	"github.com/studymate/studymate/server/service/schedule"
	"github.com/studymate/studymate/server/service/websearch"
	"github.com/studymate/studymate/server/uis"
	"github.com/studymate/studymate/store"
)

const classifierTimeout = 10 * time.Second

// APIV1Service wires every handler of the v1 JSON API.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	UIS        uis.API
	Classifier *classifier.Service
	Resolver   *timeparse.Resolver
	Schedule   *schedule.Service
	Exam       *exam.Service
	WebSearch  *websearch.Service
	Indexer    *serverai.Indexer
	Extractor  *textextract.Client
	LLM        ai.LLMService

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewAPIV1Service assembles the API from the profile. The LLM is optional:
// without it the assistant still answers schedule and exam questions from
// the rule-based resolver and politely declines open questions.
func NewAPIV1Service(secret string, p *profile.Profile, st *store.Store) (*APIV1Service, error) {
	service := &APIV1Service{
		Secret:  secret,
		Profile: p,
		Store:   st,
		UIS:     uis.NewClient(p.UISBaseURL, 0),
		Now:     time.Now,
	}

	var llm ai.LLMService
	if p.IsAIEnabled() {
		cfg := ai.NewConfigFromProfile(p)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		provider, err := ai.NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		llm = provider
	}

	service.LLM = llm
	service.Classifier = classifier.NewService(llm, classifierTimeout)
	var interpreter *timeparse.Interpreter
	if llm != nil {
		interpreter = timeparse.NewInterpreter(llm, 0)
	}
	service.Resolver = timeparse.NewResolver(interpreter)
	service.Schedule = schedule.NewService(service.UIS)
	service.Exam = exam.NewService(service.UIS)
	if p.BraveAPIKey != "" {
		service.WebSearch = websearch.NewService(p.BraveAPIKey, 0)
	}
	if llm != nil {
		service.Indexer = serverai.NewIndexer(llm, st)
	}
	if p.TikaServerURL != "" {
		service.Extractor = textextract.NewClient(p.TikaServerURL, 0)
	}

	return service, nil
}

// Register mounts all v1 routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.Use(echomw.CORS())

	apiV1 := e.Group("/api/v1")

	// Public endpoints.
	apiV1.POST("/auth/signup", s.Signup)
	apiV1.POST("/auth/login", s.Login)
	apiV1.GET("/healthz", s.Healthz)

	// Authenticated endpoints.
	limiter := middleware.NewRateLimiter(0, 0)
	authed := apiV1.Group("", s.JWTMiddleware(), limiter.Middleware())

	authed.POST("/uis/login", s.UISLogin)
	authed.GET("/uis/semester", s.UISSemester)

	authed.POST("/chat", s.Ask)

	authed.GET("/chats", s.ListChats)
	authed.POST("/chats", s.CreateChat)
	authed.GET("/chats/:uid", s.GetChat)
	authed.PATCH("/chats/:uid", s.UpdateChat)
	authed.DELETE("/chats/:uid", s.DeleteChat)
	authed.GET("/chats/:uid/messages", s.ListChatMessages)

	authed.POST("/files", s.UploadFile)
	authed.GET("/files", s.ListFiles)
	authed.DELETE("/files/:uid", s.DeleteFile)
}

// Healthz reports liveness.
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ok"})
}
