package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rupture-cli/internal/distance"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"distances", "metrics", "footprint", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "rupture-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestDistancesCommand_Flags(t *testing.T) {
	for _, name := range []string{"scenario", "sites", "ruptures", "metric", "format", "output"} {
		assert.NotNil(t, distancesCmd.Flags().Lookup(name), "distances should have --%s flag", name)
	}
	assert.Equal(t, "csv", distancesCmd.Flags().Lookup("format").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRootCmd_PersistentPreRunE_WithValidConfig(t *testing.T) {
	// Create a temp dir with a minimal config.yaml.
	tmpDir := t.TempDir()
	configContent := `
distance:
  limit: 0.01
log:
  level: info
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0o644))
	chdir(t, tmpDir)

	// Reset cfg to nil so PersistentPreRunE repopulates it.
	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 0.01, cfg.Distance.Limit)
}

func TestRootCmd_PersistentPreRunE_NoConfigFile(t *testing.T) {
	// In a temp dir with no config.yaml, viper should use defaults + env.
	chdir(t, t.TempDir())

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, distance.DistanceLimit, cfg.Distance.Limit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestRootCmd_PersistentPreRunE_BadLogLevel(t *testing.T) {
	// Create a config with an invalid log level.
	tmpDir := t.TempDir()
	configContent := `
log:
  level: NOT_A_LEVEL
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0o644))
	chdir(t, tmpDir)

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
}

func TestRootCmd_PersistentPreRunE_InvalidYAML(t *testing.T) {
	// Create a config.yaml with invalid YAML syntax.
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("invalid: [yaml: bad"), 0o644))
	chdir(t, tmpDir)

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRootCmd_PersistentPostRun_DoesNotPanic(t *testing.T) {
	// PersistentPostRun calls zap.L().Sync(); should not panic.
	assert.NotPanics(t, func() {
		rootCmd.PersistentPostRun(rootCmd, nil)
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}
