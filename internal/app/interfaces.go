package app

import (
	"context"

	"integribot/internal/api"
)

// Backend is the IntegriBot HTTP service. *api.Client satisfies it.
type Backend interface {
	GenerateScenario(ctx context.Context, req api.ScenarioRequest) (api.Scenario, error)
	Evaluate(ctx context.Context, req api.EvaluateRequest) (api.Evaluation, error)
	SubmitScore(ctx context.Context, req api.SubmitScoreRequest) (api.SubmitScoreResponse, error)
	Leaderboard(ctx context.Context) (api.Leaderboard, error)
}

// RoleCatalog supplies the role names offered as suggestions.
type RoleCatalog interface {
	Names() []string
}
