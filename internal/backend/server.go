package backend

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"integribot/internal/api"
	"integribot/internal/grading"
	"integribot/internal/roles"
	"integribot/internal/state"
	"integribot/internal/telemetry"
)

const (
	leaderboardSize = 10
	nameLimit       = 50
	roleLimit       = 80
	PathDiagnostics = "/_llm_diag"
)

type Deps struct {
	Config    Config
	Logger    *telemetry.Logger
	Store     state.Store
	Scenarios *ScenarioService
	Grader    grading.Grader
	Model     Model
	Now       func() time.Time
}

// Server answers the four IntegriBot endpoints plus model diagnostics.
type Server struct {
	cfg       Config
	logger    *telemetry.Logger
	store     state.Store
	scenarios *ScenarioService
	grader    grading.Grader
	model     Model
	now       func() time.Time
	engine    *gin.Engine
}

func NewServer(d Deps) *Server {
	s := &Server{
		cfg:       d.Config,
		logger:    d.Logger,
		store:     d.Store,
		scenarios: d.Scenarios,
		grader:    d.Grader,
		model:     d.Model,
		now:       d.Now,
	}
	if s.logger == nil {
		s.logger = telemetry.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.scenarios == nil {
		s.scenarios = NewScenarioService(nil, nil, "", nil)
	}
	if s.grader == nil {
		s.grader = grading.NewKeywordGrader()
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	origins := s.cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.POST(api.PathGenerateScenario, s.generateScenario)
	r.POST(api.PathEvaluate, s.evaluate)
	r.POST(api.PathSubmitScore, s.submitScore)
	r.GET(api.PathLeaderboard, s.leaderboard)
	r.GET(PathDiagnostics, s.diagnostics)
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Header("X-Request-Id", id)
		c.Next()
		s.logger.Debug("http.request", map[string]any{
			"id":      id,
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		})
	}
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.start", map[string]any{"addr": s.cfg.Addr})
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	wait := s.cfg.ShutdownWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	s.logger.Info("server.stop", nil)
	return srv.Shutdown(shutdownCtx)
}

func roleOrDefault(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return roles.DefaultRole
	}
	return role
}

func (s *Server) generateScenario(c *gin.Context) {
	var req api.ScenarioRequest
	// A missing or malformed body still gets a scenario for the default role.
	_ = c.ShouldBindJSON(&req)
	role := roleOrDefault(req.Role)
	sc := s.scenarios.Generate(c.Request.Context(), role)
	s.record(c.Request.Context(), "generate_scenario", role, gin.H{"name": req.Name, "difficulty": sc.Difficulty, "source": sc.Source})
	c.JSON(http.StatusOK, sc)
}

func (s *Server) evaluate(c *gin.Context) {
	var req api.EvaluateRequest
	_ = c.ShouldBindJSON(&req)
	gr := grading.Request{
		Role:     roleOrDefault(req.Role),
		Scenario: strings.TrimSpace(req.Scenario),
		Response: strings.TrimSpace(req.ResponseText),
	}
	res, err := s.grader.Grade(c.Request.Context(), gr)
	if err != nil {
		s.logger.Error("evaluate.failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.record(c.Request.Context(), "evaluate", gr.Role, gin.H{"score": res.Score, "source": res.Source})
	c.JSON(http.StatusOK, res)
}

type submitBody struct {
	Name    string          `json:"name"`
	Role    string          `json:"role"`
	Score   json.RawMessage `json:"score"`
	Consent bool            `json:"consent"`
}

func (s *Server) submitScore(c *gin.Context) {
	var req submitBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, api.SubmitScoreResponse{OK: false})
		return
	}
	name := truncateRunes(strings.TrimSpace(req.Name), nameLimit)
	role := truncateRunes(strings.TrimSpace(req.Role), roleLimit)
	score, ok := submittedScore(req.Score)
	if !ok || !req.Consent || score < grading.MinScore || score > grading.MaxScore || name == "" || role == "" {
		c.JSON(http.StatusOK, api.SubmitScoreResponse{OK: false})
		return
	}
	ts := s.now().UTC().Truncate(time.Second)
	if _, err := s.store.SaveScore(c.Request.Context(), state.ScoreEntry{Name: name, Role: role, Score: score, TS: ts}); err != nil {
		s.logger.Error("score.save_failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusOK, api.SubmitScoreResponse{OK: false})
		return
	}
	s.record(c.Request.Context(), "submit_score", role, gin.H{"name": name, "score": score})
	c.JSON(http.StatusOK, api.SubmitScoreResponse{OK: true})
}

type leaderboardItem struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Score int    `json:"score"`
	TS    string `json:"ts"`
}

func (s *Server) leaderboard(c *gin.Context) {
	top, err := s.store.TopScores(c.Request.Context(), leaderboardSize)
	if err != nil {
		s.logger.Error("leaderboard.failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]leaderboardItem, 0, len(top))
	for _, e := range top {
		items = append(items, leaderboardItem{
			Name:  e.Name,
			Role:  e.Role,
			Score: e.Score,
			TS:    e.TS.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) diagnostics(c *gin.Context) {
	if s.model == nil {
		c.JSON(http.StatusOK, gin.H{"online": false, "why": "no/placeholder API key"})
		return
	}
	raw, err := s.model.GenerateJSON(c.Request.Context(), Prompt{
		User:        `Reply with the JSON object {"pong": true}.`,
		Temperature: 0,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"online": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": true, "model": s.model.Name(), "raw": raw})
}

// record keeps a request event when request logging is enabled.
func (s *Server) record(ctx context.Context, kind, role string, payload gin.H) {
	if !s.cfg.StoreLogs {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.logger.Info("event."+kind, map[string]any{"role": role, "payload": string(b)})
	if err := s.store.AppendEvent(ctx, state.Event{Kind: kind, Role: role, Payload: string(b), TS: s.now()}); err != nil {
		s.logger.Warn("event.store_failed", map[string]any{"kind": kind, "error": err.Error()})
	}
}

// submittedScore coerces the score the way the client may send it: absent
// or null means 0, numbers and numeric strings are truncated to int.
func submittedScore(m json.RawMessage) (int, bool) {
	s := strings.TrimSpace(string(m))
	if s == "" || s == "null" {
		return 0, true
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
