package app

import (
	"context"
	"sync"

	"integribot/internal/api"
	"integribot/internal/meter"
	"integribot/internal/telemetry"
	"integribot/internal/ui"
)

type fakeView struct {
	mu sync.Mutex

	form        ui.Form
	greeting    string
	scenario    string
	feedback    string
	criteria    string
	reading     meter.Reading
	panels      ui.Panels
	rows        []ui.LeaderboardRow
	suggestions []string
	alerts      []string
	statuses    []string
	loading     []string
	scrolled    bool
	focusedName bool
	stopped     bool
	ctrl        ui.Controller
}

func newFakeView() *fakeView {
	return &fakeView{reading: meter.Render(0)}
}

func (v *fakeView) Run() error {
	return nil
}

func (v *fakeView) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

func (v *fakeView) SetController(c ui.Controller) {
	v.ctrl = c
}

func (v *fakeView) Form() ui.Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

func (v *fakeView) SetForm(f ui.Form) {
	v.mu.Lock()
	v.form = f
	v.mu.Unlock()
}

func (v *fakeView) SetResponseText(s string) {
	v.mu.Lock()
	v.form.Response = s
	v.mu.Unlock()
}

func (v *fakeView) SetRoleSuggestions(r []string) {
	v.suggestions = r
}

func (v *fakeView) SetGreeting(s string) {
	v.greeting = s
}

func (v *fakeView) SetScenarioText(s string) {
	v.scenario = s
}

func (v *fakeView) SetFeedback(s string) {
	v.feedback = s
}

func (v *fakeView) SetCriteria(s string) {
	v.criteria = s
}

func (v *fakeView) SetMeter(r meter.Reading) {
	v.reading = r
}

func (v *fakeView) MeterLabel() string {
	return v.reading.Label
}

func (v *fakeView) SetPanels(p ui.Panels) {
	v.panels = p
}

func (v *fakeView) SetLeaderboard(r []ui.LeaderboardRow) {
	v.rows = r
}

func (v *fakeView) Alert(msg string) {
	v.alerts = append(v.alerts, msg)
}

func (v *fakeView) FlashStatus(msg string) {
	v.statuses = append(v.statuses, msg)
}

func (v *fakeView) ScrollToTop() {
	v.scrolled = true
}

func (v *fakeView) FocusName() {
	v.focusedName = true
}

func (v *fakeView) SetLoading(visible bool, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !visible {
		text = "<hidden>"
	}
	v.loading = append(v.loading, text)
}

type fakeBackend struct {
	mu sync.Mutex

	scenario    api.Scenario
	evaluation  api.Evaluation
	submitOK    bool
	leaderboard api.Leaderboard
	err         error

	scenarioReqs []api.ScenarioRequest
	evalReqs     []api.EvaluateRequest
	submitReqs   []api.SubmitScoreRequest
	lbCalls      int
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.scenarioReqs) + len(b.evalReqs) + len(b.submitReqs) + b.lbCalls
}

func (b *fakeBackend) GenerateScenario(_ context.Context, req api.ScenarioRequest) (api.Scenario, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scenarioReqs = append(b.scenarioReqs, req)
	return b.scenario, b.err
}

func (b *fakeBackend) Evaluate(_ context.Context, req api.EvaluateRequest) (api.Evaluation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evalReqs = append(b.evalReqs, req)
	return b.evaluation, b.err
}

func (b *fakeBackend) SubmitScore(_ context.Context, req api.SubmitScoreRequest) (api.SubmitScoreResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitReqs = append(b.submitReqs, req)
	return api.SubmitScoreResponse{OK: b.submitOK}, b.err
}

func (b *fakeBackend) Leaderboard(context.Context) (api.Leaderboard, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lbCalls++
	return b.leaderboard, b.err
}

type fakeRoles []string

func (r fakeRoles) Names() []string { return r }

func newTestApp(b *fakeBackend, v *fakeView) *App {
	cfg := DefaultConfig()
	return newApp(cfg, telemetry.Discard(), b, v, fakeRoles{"Manager", "Supervisor"})
}

func strPtr(s string) *string { return &s }

func apiScenario(text string) api.Scenario {
	return api.Scenario{Scenario: &text, Difficulty: "medium"}
}
