package backend

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"integribot/internal/grading"
)

const feedbackFallbackLen = 400

// ModelGrader asks the model for a score and feedback.
type ModelGrader struct {
	model  Model
	corpus string
}

func NewModelGrader(model Model, corpus string) *ModelGrader {
	return &ModelGrader{model: model, corpus: corpus}
}

func (g *ModelGrader) Grade(ctx context.Context, req grading.Request) (grading.Result, error) {
	raw, err := g.model.GenerateJSON(ctx, Prompt{
		System:      systemWithCorpus(evaluateSystem, g.corpus),
		User:        evaluateUser(req.Role, req.Scenario, req.Response),
		Temperature: 0.2,
		Schema:      evaluationSchema,
	})
	if err != nil {
		return grading.Result{}, err
	}
	var out struct {
		Score    json.RawMessage `json:"score"`
		Feedback string          `json:"feedback"`
		Message  string          `json:"message"`
		Criteria string          `json:"criteria"`
	}
	if err := decodeLoose(raw, &out); err != nil {
		return grading.Result{}, err
	}
	feedback := strings.TrimSpace(out.Feedback)
	if feedback == "" {
		feedback = strings.TrimSpace(out.Message)
	}
	if feedback == "" {
		r := []rune(strings.TrimSpace(raw))
		if len(r) > feedbackFallbackLen {
			r = r[:feedbackFallbackLen]
		}
		feedback = string(r)
	}
	criteria := strings.TrimSpace(out.Criteria)
	if criteria == "" {
		criteria = grading.DefaultCriteria
	}
	return grading.Result{
		Score:    grading.Clamp(rawScore(out.Score)),
		Feedback: feedback,
		Criteria: criteria,
		Source:   g.model.Name(),
	}, nil
}

// rawScore accepts numbers and numeric strings; anything else is 0.
func rawScore(m json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(m)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int(math.Round(f))
}
