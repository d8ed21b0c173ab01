package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML rule configuration and layers it over base. Keys the
// file omits keep their base value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, eris.Wrapf(err, "rules: read %s", path)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, eris.Wrapf(err, "rules: parse %s", path)
	}
	if err := Validate(cfg); err != nil {
		return base, eris.Wrapf(err, "rules: %s", path)
	}
	return cfg, nil
}
