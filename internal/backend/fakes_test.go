package backend

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"integribot/internal/state"
)

type fakeModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []Prompt
}

func (m *fakeModel) Name() string { return "fake-model" }

func (m *fakeModel) GenerateJSON(_ context.Context, p Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, p)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", errEmptyCompletion
	}
	r := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return r, nil
}

type describer map[string]string

func (d describer) Describe(role string) string {
	if hint, ok := d[role]; ok {
		return role + ". " + hint
	}
	return role
}

func newTestStore(t *testing.T) *state.SQLiteStore {
	t.Helper()
	store, err := state.NewSQLite(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return store
}

func noShuffle([]candidate) {}
