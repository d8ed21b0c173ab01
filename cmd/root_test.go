package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "assess", "config", "funding"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "assess-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentPreRunE)
}

func TestFundingCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range fundingCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["import"])
	assert.True(t, names["stats"])
}

func TestCommand_Flags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
		def  string
	}{
		{"serve", "port", "0"},
		{"assess", "input", ""},
		{"assess", "output", ""},
		{"config", "format", "yaml"},
	}
	for _, tt := range tests {
		c, _, err := rootCmd.Find([]string{tt.cmd})
		require.NoError(t, err)
		f := c.Flags().Lookup(tt.flag)
		require.NotNil(t, f, "%s should have --%s", tt.cmd, tt.flag)
		assert.Equal(t, tt.def, f.DefValue)
	}

	for _, name := range []string{"file", "url"} {
		assert.NotNil(t, fundingImportCmd.Flags().Lookup(name), "funding import should have --%s", name)
	}
}

func TestRootCommand_PreRunLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ASSESS_SERVER_PORT", "9191")

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.Assessor.Provider)
}
