package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrgen/qrgen/encoder"
)

// execute runs the command tree against a scratch output directory with
// history off and no config file.
func execute(t *testing.T, in string, args ...string) (string, string, error) {
	t.Helper()

	tmp := t.TempDir()
	dir := filepath.Join(tmp, "out")
	base := []string{"--config", filepath.Join(tmp, "missing.yaml"), "--dir", dir, "--no-history"}

	root := newRootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(in))
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), dir, err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "qrgen "+version+"\n", out)
}

func TestSingleTextMatchingCommandName(t *testing.T) {
	t.Parallel()

	out, dir, err := execute(t, "", "--", "version", "named")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Content: version")

	decoded, err := encoder.DecodeFile(filepath.Join(dir, "named.png"))
	require.NoError(t, err)
	assert.Equal(t, "version", decoded)
}

func TestSingleRejectsEscapingFilename(t *testing.T) {
	t.Parallel()

	out, dir, err := execute(t, "", "hello", "../../escaped")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "✗ Generation failed")
	_, statErr := os.Stat(filepath.Join(dir, "..", "..", "escaped.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInteractiveFromPipedInputDoesNotPause(t *testing.T) {
	t.Parallel()

	out, dir, err := execute(t, "1\nhello\npiped\n")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ QR code saved: "+filepath.Join(dir, "piped.png"))
	assert.NotContains(t, out, "Press Enter to exit")
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, isTerminal(strings.NewReader("")))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
