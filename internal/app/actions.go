package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"integribot/internal/api"
	"integribot/internal/meter"
	"integribot/internal/ui"
)

// Precondition failures. The user has already been alerted when one of
// these is returned and no request was sent.
var (
	ErrMissingIdentity = errors.New("name and role are required")
	ErrEmptyResponse   = errors.New("response is empty")
	ErrConsentRequired = errors.New("leaderboard consent not given")
)

// ErrScoreRejected means the backend answered submit_score without ok.
var ErrScoreRejected = errors.New("score was not saved")

const (
	alertEnterIdentity  = "Please enter your name and role."
	alertEmptyResponse  = "Please type your response."
	alertConsent        = "Please check the consent box to appear on the leaderboard."
	alertIdentityNeeded = "Name and role required."
	alertSaveFailed     = "Could not save score. Try again."

	fallbackScenario = "No scenario generated."
	fallbackFeedback = "(No feedback)"
	fallbackName     = "Anon"
)

// IsPrecondition reports whether err came from a local input check.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrMissingIdentity) || errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrConsentRequired)
}

// GenerateScenario asks the backend for a scenario for the entered name and
// role and makes it the current one.
func (a *App) GenerateScenario(ctx context.Context) error {
	form := a.view.Form()
	name := strings.TrimSpace(form.Name)
	role := strings.TrimSpace(form.Role)
	if name == "" || role == "" {
		a.view.Alert(alertEnterIdentity)
		return ErrMissingIdentity
	}

	done := a.beginRequest()
	sc, err := a.backend.GenerateScenario(ctx, api.ScenarioRequest{Name: name, Role: role})
	done()
	if err != nil {
		return fmt.Errorf("generate scenario: %w", err)
	}

	panels := a.session.Replace(sc)
	text := sc.Text()
	if text == "" {
		text = fallbackScenario
	}
	a.view.SetGreeting(fmt.Sprintf("Hi %s! IntegriBot has prepared a scenario for the %s role.", name, role))
	a.view.SetScenarioText(text)
	a.view.SetPanels(panels)
	a.view.SetResponseText("")
	return nil
}

// SubmitResponse sends the typed response for evaluation against the
// current scenario, which may be empty.
func (a *App) SubmitResponse(ctx context.Context) error {
	form := a.view.Form()
	role := strings.TrimSpace(form.Role)
	response := strings.TrimSpace(form.Response)
	if response == "" {
		a.view.Alert(alertEmptyResponse)
		return ErrEmptyResponse
	}

	done := a.beginRequest()
	ev, err := a.backend.Evaluate(ctx, api.EvaluateRequest{
		Role:         role,
		Scenario:     a.session.ScenarioText(),
		ResponseText: response,
	})
	done()
	if err != nil {
		return fmt.Errorf("evaluate response: %w", err)
	}

	feedback := fallbackFeedback
	if ev.Feedback != nil && *ev.Feedback != "" {
		feedback = *ev.Feedback
	}
	criteria := ""
	if ev.Criteria != nil && *ev.Criteria != "" {
		criteria = "Criteria: " + *ev.Criteria
	}
	a.view.SetFeedback(feedback)
	a.view.SetCriteria(criteria)
	a.view.SetMeter(meter.Render(ev.Score))
	a.view.SetPanels(a.session.Apply(EventEvaluated))
	return nil
}

// SaveScore publishes the displayed score under the first word of the
// entered name, then refreshes the leaderboard.
func (a *App) SaveScore(ctx context.Context) error {
	form := a.view.Form()
	name := strings.TrimSpace(form.Name)
	role := strings.TrimSpace(form.Role)
	label := a.view.MeterLabel()
	if label == "" {
		label = meter.Render(0).Label
	}
	score := meter.ParseLabel(label)

	if !form.Consent {
		a.view.Alert(alertConsent)
		return ErrConsentRequired
	}
	if name == "" || role == "" {
		a.view.Alert(alertIdentityNeeded)
		return ErrMissingIdentity
	}

	done := a.beginRequest()
	res, err := a.backend.SubmitScore(ctx, api.SubmitScoreRequest{
		Name:    firstToken(name),
		Role:    role,
		Score:   score,
		Consent: true,
	})
	done()
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	if !res.OK {
		a.view.Alert(alertSaveFailed)
		return ErrScoreRejected
	}
	return a.LoadLeaderboard(ctx)
}

// LoadLeaderboard replaces the displayed ranking with the backend's.
func (a *App) LoadLeaderboard(ctx context.Context) error {
	done := a.beginRequest()
	lb, err := a.backend.Leaderboard(ctx)
	done()
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	a.view.SetLeaderboard(LeaderboardRows(lb))
	a.view.SetPanels(a.session.Apply(EventLeaderboardLoaded))
	return nil
}

// CloseLeaderboard hides the leaderboard panel. Stored scores are untouched.
func (a *App) CloseLeaderboard() {
	a.view.SetPanels(a.session.Apply(EventLeaderboardClosed))
}

// ClearAll returns the client to its initial state without any request.
func (a *App) ClearAll() {
	a.view.SetForm(ui.Form{})
	a.view.SetPanels(a.session.Reset())
	a.view.SetMeter(meter.Render(0))
	a.view.SetFeedback("")
	a.view.SetCriteria("")
	a.view.SetGreeting("")
	a.view.ScrollToTop()
	a.view.FocusName()
}

// LeaderboardRows ranks items in the order the backend sent them.
func LeaderboardRows(lb api.Leaderboard) []ui.LeaderboardRow {
	rows := make([]ui.LeaderboardRow, 0, len(lb.Items))
	for i, item := range lb.Items {
		rows = append(rows, ui.LeaderboardRow{
			Rank:  i + 1,
			Name:  item.NameOr(fallbackName),
			Role:  item.RoleOr(""),
			Score: item.ScoreText() + "/10",
		})
	}
	return rows
}

func firstToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
