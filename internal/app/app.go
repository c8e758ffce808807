package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"integribot/internal/api"
	"integribot/internal/meter"
	"integribot/internal/overlay"
	"integribot/internal/telemetry"
	"integribot/internal/ui"
)

type App struct {
	cfg Config

	logger  *telemetry.Logger
	backend Backend
	roles   RoleCatalog
	view    ui.View
	overlay *overlay.Controller
	session *Session

	ctx    context.Context
	cancel context.CancelFunc

	reqMu   sync.Mutex
	pending int
}

// New wires the client against a real backend and terminal view.
func New(cfg Config, roles RoleCatalog) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewLogger(telemetry.Options{Path: cfg.LogPath, Level: cfg.LogLevel, Prefix: "integribot"})
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg.BackendURL, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.DebugLayout,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		Markdown:     cfg.UI.Markdown,
		EnableAgain:  cfg.Keys.Again,
		EnableSave:   cfg.Keys.Save,
		Logger:       logger,
	})
	return newApp(cfg, logger, client, view, roles), nil
}

func newApp(cfg Config, logger *telemetry.Logger, backend Backend, view ui.View, roles RoleCatalog) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		roles:   roles,
		view:    view,
		overlay: overlay.New(view),
		session: NewSession(),
		ctx:     ctx,
		cancel:  cancel,
	}
	view.SetController(a)
	view.SetMeter(meter.Render(0))
	if roles != nil {
		view.SetRoleSuggestions(roles.Names())
	}
	return a
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.session.ID(),
		"backend": a.cfg.BackendURL,
		"overlay": a.cfg.OverlayOnRequests,
	})
	stop := context.AfterFunc(ctx, a.view.Stop)
	defer stop()
	err := a.view.Run()
	a.logger.Info("app.stop", map[string]any{"session": a.session.ID()})
	return err
}

func (a *App) Close() {
	a.cancel()
	a.overlay.Hide()
	_ = a.logger.Close()
}

// Overlay exposes the loading overlay so callers can show it around their
// own long-running work.
func (a *App) Overlay() *overlay.Controller {
	return a.overlay
}

// beginRequest shows the overlay for the first outstanding request when
// enabled. The returned func must be called once the request completes.
func (a *App) beginRequest() func() {
	if !a.cfg.OverlayOnRequests || a.overlay == nil {
		return func() {}
	}
	a.reqMu.Lock()
	a.pending++
	if a.pending == 1 {
		a.overlay.Show()
	}
	a.reqMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.reqMu.Lock()
			defer a.reqMu.Unlock()
			a.pending--
			if a.pending == 0 {
				a.overlay.Hide()
			}
		})
	}
}

func (a *App) OnGenerate() { a.dispatch("generate", a.GenerateScenario) }

func (a *App) OnGenerateAgain() {
	if !a.cfg.Keys.Again {
		return
	}
	a.dispatch("again", a.GenerateScenario)
}

func (a *App) OnSubmit() { a.dispatch("submit", a.SubmitResponse) }

func (a *App) OnSave() {
	if !a.cfg.Keys.Save {
		return
	}
	a.dispatch("save", a.SaveScore)
}

func (a *App) OnOpenLeaderboard() { a.dispatch("leaderboard", a.LoadLeaderboard) }

func (a *App) OnCloseLeaderboard() {
	a.CloseLeaderboard()
	a.logger.Debug("action.leaderboard_close.done", map[string]any{"session": a.session.ID()})
}

func (a *App) OnClear() {
	a.ClearAll()
	a.logger.Info("action.clear.done", map[string]any{"session": a.session.ID()})
}

func (a *App) OnQuit() {
	a.cancel()
	a.view.Stop()
}

// dispatch runs one action and records its outcome. Transport failures are
// only surfaced in the status line; the alert dialog is reserved for input
// problems the action itself reports.
func (a *App) dispatch(name string, action func(context.Context) error) {
	start := time.Now()
	err := action(a.ctx)
	fields := map[string]any{
		"session":    a.session.ID(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	switch {
	case err == nil:
		a.logger.Info("action."+name+".done", fields)
	case IsPrecondition(err):
		fields["reason"] = err.Error()
		a.logger.Info("action."+name+".rejected", fields)
	case errors.Is(err, ErrScoreRejected):
		a.logger.Warn("action."+name+".rejected", fields)
	case errors.Is(err, context.Canceled):
		a.logger.Debug("action."+name+".canceled", fields)
	default:
		fields["error"] = err.Error()
		a.logger.Error("action."+name+".failed", fields)
		a.view.FlashStatus(fmt.Sprintf("%s failed: %v", name, err))
	}
}
