package backend

import (
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const corpusLimit = 12000

const scenarioSystem = "You are IntegriBot hosting RealtyCheck, a workplace integrity simulation. " +
	"Write realistic, role-specific ethical dilemmas of 60-110 words in the second person. " +
	"Each scenario must present genuine tension between business pressure and integrity " +
	"(bribery, conflicts of interest, data honesty, safety, fairness, confidentiality). " +
	"Do not suggest the right answer. End with a direct question asking what the participant would do and why."

const evaluateSystem = "Evaluate the participant's response to a workplace integrity scenario. " +
	"Judge honesty, transparency, fairness, compliance with policy/law, accountability, and courage. " +
	"Return a score from 0 to 10, two to four sentences of constructive feedback, " +
	"and a short list of the criteria you applied."

func scenarioUser(roleDescription string) string {
	return fmt.Sprintf("Role: %s\n\nGenerate 3 distinct candidate scenarios for this role, each with a difficulty of easy, medium or hard.", roleDescription)
}

func evaluateUser(role, scenario, response string) string {
	return fmt.Sprintf("Role: %s\n\nScenario:\n%s\n\nParticipant response:\n%s\n\nIf the response is empty or evades the issue, give a low score.", role, scenario, response)
}

// fallbackScenario is served when no model is available or every model call
// fails.
func fallbackScenario(role string) string {
	return fmt.Sprintf("As a %s, a vendor hints at a personal favor to fast-track an approval. "+
		"Your manager is under deadline pressure. Reporting it could slow work, but ignoring it "+
		"risks violating anti-bribery policy. What would you do and why?", role)
}

var scenarioSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"candidates": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scenario":   {Type: genai.TypeString},
					"difficulty": {Type: genai.TypeString, Enum: []string{"easy", "medium", "hard"}},
				},
				PropertyOrdering: []string{"scenario", "difficulty"},
				Required:         []string{"scenario"},
			},
		},
	},
	Required: []string{"candidates"},
}

var evaluationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":    {Type: genai.TypeInteger},
		"feedback": {Type: genai.TypeString},
		"criteria": {Type: genai.TypeString},
	},
	PropertyOrdering: []string{"score", "feedback", "criteria"},
	Required:         []string{"score", "feedback"},
}

// LoadCorpus reads the optional integrity reference text appended to system
// prompts. A missing file yields "".
func LoadCorpus(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	if r := []rune(s); len(r) > corpusLimit {
		s = string(r[:corpusLimit])
	}
	return s, nil
}

func systemWithCorpus(system, corpus string) []string {
	if corpus == "" {
		return []string{system}
	}
	return []string{system, "Reference material:\n" + corpus}
}
