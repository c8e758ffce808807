package backend

import (
	"context"
	"math/rand/v2"
	"strings"
)

const (
	scenarioLimit     = 900
	defaultDifficulty = "medium"
)

type Scenario struct {
	Role       string `json:"role"`
	Scenario   string `json:"scenario"`
	Difficulty string `json:"difficulty"`
	Source     string `json:"source"`
}

type RoleDescriber interface {
	Describe(role string) string
}

type candidate struct {
	Scenario   string `json:"scenario"`
	Difficulty string `json:"difficulty"`
}

// ScenarioService picks one scenario per request, preferring model output
// not recently served for the same role.
type ScenarioService struct {
	model   Model
	roles   RoleDescriber
	corpus  string
	recent  *recentGuard
	shuffle func([]candidate)
	onErr   func(error)
}

func NewScenarioService(model Model, roles RoleDescriber, corpus string, onErr func(error)) *ScenarioService {
	return &ScenarioService{
		model:  model,
		roles:  roles,
		corpus: corpus,
		recent: newRecentGuard(recentPerRole),
		shuffle: func(c []candidate) {
			rand.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
		},
		onErr: onErr,
	}
}

func (s *ScenarioService) Generate(ctx context.Context, role string) Scenario {
	if s.model != nil {
		sc, err := s.fromModel(ctx, role)
		if err == nil {
			return sc
		}
		if s.onErr != nil {
			s.onErr(err)
		}
	}
	return Scenario{
		Role:       role,
		Scenario:   fallbackScenario(role),
		Difficulty: defaultDifficulty,
		Source:     "fallback",
	}
}

func (s *ScenarioService) fromModel(ctx context.Context, role string) (Scenario, error) {
	desc := role
	if s.roles != nil {
		desc = s.roles.Describe(role)
	}
	raw, err := s.model.GenerateJSON(ctx, Prompt{
		System:      systemWithCorpus(scenarioSystem, s.corpus),
		User:        scenarioUser(desc),
		Temperature: 1.0,
		Schema:      scenarioSchema,
	})
	if err != nil {
		return Scenario{}, err
	}
	var out struct {
		Candidates []candidate `json:"candidates"`
	}
	if err := decodeLoose(raw, &out); err != nil {
		return Scenario{}, err
	}
	cands := out.Candidates[:0]
	for _, c := range out.Candidates {
		if strings.TrimSpace(c.Scenario) != "" {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return Scenario{}, errEmptyCompletion
	}
	s.shuffle(cands)
	pick := cands[0]
	for _, c := range cands {
		if !s.recent.seen(role, c.Scenario) {
			pick = c
			s.recent.remember(role, c.Scenario)
			break
		}
	}

	text := strings.TrimSpace(pick.Scenario)
	if r := []rune(text); len(r) > scenarioLimit {
		text = string(r[:scenarioLimit])
	}
	diff := strings.ToLower(strings.TrimSpace(pick.Difficulty))
	if diff == "" {
		diff = defaultDifficulty
	}
	return Scenario{Role: role, Scenario: text, Difficulty: diff, Source: s.model.Name()}, nil
}
