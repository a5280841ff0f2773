package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fintrack/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "fintrack", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Categorize bank transactions")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	configFlag := root.Cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-format"))
}

func TestRootCommand_PreRunLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("categorization:\n  similarity_threshold: 0.5\ndata:\n  directory: "+dir+"\n"), 0600))

	root.Flags.ConfigFile = file
	root.Flags.LogLevel = "debug"
	t.Cleanup(func() {
		root.Flags = root.GlobalFlags{}
		root.AppConfig = nil
	})

	require.NoError(t, root.Cmd.PersistentPreRunE(root.Cmd, nil))
	require.NotNil(t, root.AppConfig)
	assert.Equal(t, 0.5, root.AppConfig.Categorization.SimilarityThreshold)
	assert.Equal(t, 0.5, root.AppConfig.Categorization.RuleThreshold)
	assert.Equal(t, "debug", root.AppConfig.Log.Level)

	c, err := root.NewContainer()
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	root.Flags.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { root.Flags = root.GlobalFlags{} })

	assert.Error(t, root.Cmd.PersistentPreRunE(root.Cmd, nil))
}

func TestNewContainer_WithoutConfig(t *testing.T) {
	root.AppConfig = nil
	_, err := root.NewContainer()
	assert.Error(t, err)
}
