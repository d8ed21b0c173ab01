package qualitative

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidResponse is returned when a model reply does not match the
// expected JSON schema.
var ErrInvalidResponse = eris.New("qualitative: invalid response")

var lightEnum = []string{"green", "yellow", "red"}

var projectSchema = mustCompile(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"innovationTrafficLight": map[string]any{
			"type":        "string",
			"enum":        lightEnum,
			"description": "(green=best, red=worst) traffic light indicating level of innovation",
		},
		"strategicFitTrafficLight": map[string]any{
			"type":        "string",
			"enum":        lightEnum,
			"description": "(green=best, red=worst) traffic light indicating level of strategic fit",
		},
		"feedback": map[string]any{
			"type":        "string",
			"description": "textual feedback in 1-3 sentences",
		},
	},
	"required": []string{"innovationTrafficLight", "strategicFitTrafficLight", "feedback"},
})

var roleSchema = mustCompile(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"relevancy": map[string]any{
			"type":        "string",
			"enum":        lightEnum,
			"description": "(green=best, red=worst) how relevant the company's role is to the project",
		},
		"clarity": map[string]any{
			"type":        "string",
			"enum":        lightEnum,
			"description": "(green=best, red=worst) how clearly the role is described",
		},
		"feedback": map[string]any{
			"type":        "string",
			"description": "textual feedback in 1-3 sentences",
		},
	},
	"required": []string{"relevancy", "clarity", "feedback"},
})

// responseSchema is a JSON schema document plus its compiled validator.
type responseSchema struct {
	doc      map[string]any
	compiled *gojsonschema.Schema
}

func mustCompile(doc map[string]any) *responseSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(eris.Wrap(err, "qualitative: compile schema"))
	}
	return &responseSchema{doc: doc, compiled: s}
}

// String renders the schema document as indented JSON for prompts.
func (s *responseSchema) String() string {
	b, _ := json.MarshalIndent(s.doc, "", "  ")
	return string(b)
}

// decode validates a model reply and unmarshals it into out.
func (s *responseSchema) decode(text string, out any) error {
	raw := extractJSON(text)
	result, err := s.compiled.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return eris.Wrap(ErrInvalidResponse, "not JSON: "+err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return eris.Wrap(ErrInvalidResponse, strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return eris.Wrap(ErrInvalidResponse, err.Error())
	}
	return nil
}

// extractJSON strips Markdown code fences and any prose around the
// outermost JSON object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}
