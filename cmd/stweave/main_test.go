package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stweave/stweave/internal/cli"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_VersionFlag(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-version"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "stweave", "the version line names the tool")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"frobnicate"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "frobnicate")
}

func TestRun_RunWithoutProjectFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"run"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "missing PROJECT_FILE")
}

func TestRun_InitWritesATemplate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	target := filepath.Join(t.TempDir(), "stweave.hcl")
	args := []string{"init", "-target", target}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)
	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	require.Contains(t, string(content), "stweave {", "the template carries the project block")
	require.Contains(t, string(content), "expansion_strategy {")
	require.Contains(t, string(content), "optimization {")
}
