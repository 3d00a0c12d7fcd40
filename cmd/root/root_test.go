package root_test

import (
	"bytes"
	"testing"

	"fjacquet/budget-analyzer/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "budget-analyzer", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Analyze YNAB spending")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_Flags(t *testing.T) {
	if root.Cmd.PersistentFlags().Lookup("config") == nil {
		root.Init()
	}

	configFlag := root.Cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-level"))
}

func TestRootCommand_PrintsHelp(t *testing.T) {
	var buf bytes.Buffer
	root.Cmd.SetOut(&buf)
	t.Cleanup(func() { root.Cmd.SetOut(nil) })

	require.NoError(t, root.Cmd.RunE(root.Cmd, nil))
	assert.Contains(t, buf.String(), "budget-analyzer reads transactions")
}

func TestLoadContainer_InvalidLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("YNAB_API_KEY", "token")
	root.ConfigFile = ""
	root.LogLevel = "chatty"
	t.Cleanup(func() { root.LogLevel = "" })

	_, err := root.LoadContainer()
	assert.ErrorContains(t, err, "log.level")
}
