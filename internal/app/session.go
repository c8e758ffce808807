package app

import (
	"sync"

	"integribot/internal/api"
	"integribot/internal/ui"

	"github.com/google/uuid"
)

// Session is the state retained between actions. Handlers run on their own
// goroutines, so every access goes through mu. The lock is never held
// across a backend call.
type Session struct {
	mu       sync.Mutex
	id       string
	scenario *api.Scenario
	panels   ui.Panels
}

func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Scenario returns a copy of the retained scenario, or nil.
func (s *Session) Scenario() *api.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scenario == nil {
		return nil
	}
	cp := *s.scenario
	return &cp
}

// ScenarioText is what gets sent back with an evaluation.
func (s *Session) ScenarioText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario.Text()
}

func (s *Session) Panels() ui.Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panels
}

// Apply records e and returns the resulting panel set.
func (s *Session) Apply(e PanelEvent) ui.Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels = Transition(s.panels, e)
	return s.panels
}

// Replace stores sc as the current scenario and shows only its panel.
func (s *Session) Replace(sc api.Scenario) ui.Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = &sc
	s.panels = Transition(s.panels, EventScenarioGenerated)
	return s.panels
}

// Reset discards the scenario and hides every panel.
func (s *Session) Reset() ui.Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = nil
	s.panels = Transition(s.panels, EventCleared)
	return s.panels
}
