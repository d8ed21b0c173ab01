package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/assess-cli/internal/assess"
	"github.com/sells-group/assess-cli/internal/model"
)

const requestJSON = `{
	"generalDescription": "Autonomous drones for inspecting power lines.",
	"consortium": [{"businessId": "0112038-9", "budget": 60000, "requestedFunding": 30000}]
}`

func TestReadProjectInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(requestJSON), 0o644))

	in, err := readProjectInput(strings.NewReader(""), path)
	require.NoError(t, err)
	require.Len(t, in.Consortium, 1)
	assert.Equal(t, "0112038-9", in.Consortium[0].BusinessID)
	assert.InDelta(t, 60_000, in.Consortium[0].Budget, 1e-9)
}

func TestReadProjectInput_Stdin(t *testing.T) {
	in, err := readProjectInput(strings.NewReader(requestJSON), "-")
	require.NoError(t, err)
	assert.Equal(t, "Autonomous drones for inspecting power lines.", in.GeneralDescription)
}

func TestReadProjectInput_Errors(t *testing.T) {
	_, err := readProjectInput(nil, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")

	_, err = readProjectInput(strings.NewReader(`{"consortium": `), "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode input")
}

func TestWriteReport(t *testing.T) {
	report := &assess.Assessment{ID: "r-1", OverallTrafficLight: model.Green}

	var stdout bytes.Buffer
	require.NoError(t, writeReport(&stdout, "", report))
	assert.Contains(t, stdout.String(), `"id": "r-1"`)

	path := filepath.Join(t.TempDir(), "report.json")
	stdout.Reset()
	require.NoError(t, writeReport(&stdout, path, report))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got assess.Assessment
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, model.Green, got.OverallTrafficLight)
}

func TestWriteReport_CreateFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	err := writeReport(&bytes.Buffer{}, path, &assess.Assessment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output file")
}

func TestAssessCmd_RejectsInvalidRequest(t *testing.T) {
	cfg = testConfig(t)

	path := filepath.Join(t.TempDir(), "request.json")
	body := `{"generalDescription": "Autonomous drones for inspecting power lines.",
		"consortium": [{"businessId": "0112038-8", "budget": 100}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	assessInput = path
	defer func() { assessInput = "" }()
	assessCmd.SetContext(context.Background())

	err := assessCmd.RunE(assessCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consortium[0].businessId")
	assert.Contains(t, err.Error(), "total budget must be at least 20000")
}
