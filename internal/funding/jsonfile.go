package funding

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// LoadJSON reads a table written by WriteJSON.
func LoadJSON(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "funding: read %s", path)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, eris.Wrapf(err, "funding: parse %s", path)
	}
	return NewTable(data), nil
}

// WriteJSON writes data as a single JSON object keyed by business id.
func WriteJSON(path string, data Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "funding: create dir for %s", path)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return eris.Wrap(err, "funding: encode")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrapf(err, "funding: write %s", path)
	}
	return nil
}
