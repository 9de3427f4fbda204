package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup_BadConfig(t *testing.T) {
	resetGlobals(t, testSightings)
	path := filepath.Join(t.TempDir(), "hostctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o644))
	configPath = path
	require.Error(t, setup(rootCmd, nil))
}

func TestExecute_List(t *testing.T) {
	resetGlobals(t, testSightings)
	rootCmd.SetArgs([]string{"list", "--quiet"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	output, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	require.Empty(t, output)
}

func TestVersionFlagMatchesCommand(t *testing.T) {
	resetGlobals(t, testSightings)
	rootCmd.SetArgs([]string{"--version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	output, err := captureOutput(t, func() error {
		rootCmd.SetOut(os.Stdout)
		defer rootCmd.SetOut(nil)
		return rootCmd.Execute()
	})
	require.NoError(t, err)
	require.Equal(t, version, rootCmd.Version)
	assertContains(t, output, []string{"hostctl version " + version})
}

func TestVersionCommand(t *testing.T) {
	output, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"hostctl dev", "commit: none"})
}
