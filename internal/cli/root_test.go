package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandGlobalFlags(t *testing.T) {
	for _, name := range []string{"region", "profile", "log-level", "plugin"} {
		flag := lookupFlag(rootCmd, name)
		require.NotNil(t, flag, "root command should expose --%s", name)
	}
	assert.Equal(t, "info", lookupFlag(rootCmd, "log-level").DefValue)
}

func TestSubcommandFlags(t *testing.T) {
	for _, name := range []string{"cluster", "task", "container", "command", "interactive"} {
		require.NotNil(t, execCmd.Flags().Lookup(name), "exec should expose --%s", name)
	}
	assert.Equal(t, "/bin/bash", execCmd.Flags().Lookup("command").DefValue)
	assert.Equal(t, "true", execCmd.Flags().Lookup("interactive").DefValue)

	for _, name := range []string{"cluster", "task", "container"} {
		require.NotNil(t, logsCmd.Flags().Lookup(name), "logs should expose --%s", name)
	}
	assert.Nil(t, logsCmd.Flags().Lookup("command"))
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	h := newHarness(t)

	err := h.run("shell")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.False(t, h.loaded)
}

func TestInvalidLogLevelFailsBeforeAWS(t *testing.T) {
	h := newHarness(t)

	err := h.run("exec", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hint:")
	assert.False(t, h.loaded)
}
