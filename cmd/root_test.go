package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/souffle-app/souffle-content/internal/pipeline"
	"github.com/souffle-app/souffle-content/pkg/config"
	"github.com/souffle-app/souffle-content/pkg/exitcode"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRoot runs a fresh command tree and returns combined output.
func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	registerSubcommands(cmd)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// Reduce log noise to capture clean command output for JSON parsing
	full := append([]string{"--log-level", "error"}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return buf.String(), err
}

// writeTree creates files (path -> contents) under a fresh temp dir and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return root
}

func TestInitializeLogger(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "invalid"} {
		cmd := &cobra.Command{}
		cmd.Flags().String("log-level", level, "")
		cmd.Flags().Bool("json", false, "")
		cmd.Flags().Bool("no-color", false, "")
		initializeLogger(cmd)
	}

	cmd := &cobra.Command{Annotations: map[string]string{"dry-run": "true"}}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("json", true, "")
	cmd.Flags().Bool("no-color", true, "")
	initializeLogger(cmd)
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitcode.Success},
		{&pipeline.BuildError{Kind: pipeline.StructuralError}, exitcode.FileSystemError},
		{fmt.Errorf("wrapped: %w", &pipeline.BuildError{Kind: pipeline.SyntaxError}), exitcode.ValidationError},
		{&pipeline.BuildError{Kind: pipeline.SchemaViolation}, exitcode.ValidationError},
		{fmt.Errorf("%w: bad pattern", config.ErrInvalid), exitcode.ConfigError},
		{fmt.Errorf("%w: 3 assets failed", errNetwork), exitcode.NetworkError},
		{fmt.Errorf("%w: read-only file system", manifest.ErrWrite), exitcode.FileSystemError},
		{errors.New("boom"), exitcode.GeneralError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCodeFor(tt.err), "%v", tt.err)
	}
}

func TestRootVersionFlag(t *testing.T) {
	out, err := execRoot(t, []string{"--version"})
	require.NoError(t, err)
	assert.Contains(t, out, "souffle-content ")
}

func TestHelpListsCommands(t *testing.T) {
	out, err := execRoot(t, []string{"--help"})
	require.NoError(t, err)
	for _, name := range []string{"build", "validate", "inspect", "precache", "version"} {
		assert.Contains(t, out, name)
	}
}
