package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/assess-cli/internal/config"
	"github.com/sells-group/assess-cli/internal/rules"
)

func TestWriteRules_YAMLLoadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRules(&buf, rules.Default(), "yaml"))
	assert.Contains(t, buf.String(), "weights:")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	// Loading the printed defaults over a zero config restores them.
	got, err := rules.LoadFile(path, rules.Config{})
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), got)
}

func TestWriteRules_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRules(&buf, rules.Default(), "json"))

	var out rules.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, rules.Default().Weights, out.Weights.Weights)
	assert.InDelta(t, 1, out.FundingHistoryRules.NoFundingHistory.Weight, 1e-9)
}

func TestWriteRules_UnknownFormat(t *testing.T) {
	err := writeRules(&bytes.Buffer{}, rules.Default(), "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "toml"`)
}

func TestConfigCmd(t *testing.T) {
	cfg = &config.Config{}
	configFormat = "json"
	defer func() { configFormat = "yaml" }()

	var out bytes.Buffer
	configCmd.SetOut(&out)
	defer configCmd.SetOut(nil)

	require.NoError(t, configCmd.RunE(configCmd, nil))
	assert.Contains(t, out.String(), `"financialRiskRules"`)
}
