package rules

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Merge applies a partial JSON configuration onto base. Fields absent from
// the override keep their base value. Unknown fields and trailing values are
// rejected so a typo does not silently fall back to the default.
func Merge(base Config, override []byte) (Config, error) {
	merged := base
	trimmed := bytes.TrimSpace(override)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return merged, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&merged); err != nil {
		return base, eris.Wrap(err, "rules: decode configuration override")
	}
	if dec.More() {
		return base, eris.New("rules: decode configuration override: trailing data after JSON object")
	}
	return merged, nil
}

// Resolve merges the override onto the defaults and validates the result.
// Both decode and validation failures wrap ErrInvalidConfig.
func Resolve(base Config, override []byte) (Config, error) {
	cfg, err := Merge(base, override)
	if err != nil {
		return Config{}, eris.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
