package gemini

import (
	"strings"

	"google.golang.org/genai"
)

// ToSchema converts a JSON schema document into the SDK's schema type.
// Keywords the API does not understand are dropped.
func ToSchema(doc map[string]any) *genai.Schema {
	if len(doc) == 0 {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := doc["type"].(string); ok {
		switch strings.ToLower(t) {
		case "object":
			s.Type = genai.TypeObject
		case "array":
			s.Type = genai.TypeArray
		case "string":
			s.Type = genai.TypeString
		case "number":
			s.Type = genai.TypeNumber
		case "integer":
			s.Type = genai.TypeInteger
		case "boolean":
			s.Type = genai.TypeBoolean
		}
	}
	if d, ok := doc["description"].(string); ok {
		s.Description = d
	}
	s.Enum = stringList(doc["enum"])
	s.Required = stringList(doc["required"])
	if items, ok := doc["items"].(map[string]any); ok {
		s.Items = ToSchema(items)
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if m, ok := v.(map[string]any); ok {
				s.Properties[name] = ToSchema(m)
			}
		}
	}
	return s
}

func stringList(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
