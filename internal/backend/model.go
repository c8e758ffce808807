package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// Prompt is one structured generation request.
type Prompt struct {
	System      []string
	User        string
	Temperature float32
	Schema      *genai.Schema
}

// Model turns a prompt into JSON text.
type Model interface {
	Name() string
	GenerateJSON(ctx context.Context, p Prompt) (string, error)
}

var errEmptyCompletion = errors.New("model returned no content")

type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiModel{client: client, model: cfg.Model}, nil
}

func (g *GeminiModel) Name() string { return g.model }

func (g *GeminiModel) GenerateJSON(ctx context.Context, p Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   p.Schema,
		Temperature:      genai.Ptr(p.Temperature),
	}
	if len(p.System) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(p.System, "\n\n"), genai.RoleUser)
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), config)
	if err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyCompletion
	}
	return strings.TrimSpace(res.Candidates[0].Content.Parts[0].Text), nil
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// decodeLoose decodes the first {...} block of s, tolerating code fences
// or chatter around it.
func decodeLoose(s string, v any) error {
	if m := jsonObject.FindString(s); m != "" {
		s = m
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}
