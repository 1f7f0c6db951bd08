package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a025487UpTo2310 is the ascending waterfall sequence up to 2310 inclusive.
var a025487UpTo2310 = []string{
	"1", "2", "4", "6", "8", "12", "16", "24", "30", "32",
	"36", "48", "60", "64", "72", "96", "120", "128", "144", "180",
	"192", "210", "216", "240", "256", "288", "360", "384", "420", "432",
	"480", "512", "576", "720", "768", "840", "864", "900", "960", "1024",
	"1080", "1152", "1260", "1296", "1440", "1536", "1680", "1728", "1800", "1920",
	"2048", "2160", "2304", "2310",
}

// enumeratedValues extracts the first tab-separated field of every plain
// output line.
func enumeratedValues(t *testing.T, out string) []string {
	t.Helper()

	var values []string

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.SplitN(line, "\t", 2)
		require.Len(t, fields, 2, "line %q", line)

		values = append(values, fields[0])
	}

	return values
}

func TestEnumerateCommand_MatchesKnownSequence(t *testing.T) {
	cmd := NewEnumerateCommand()
	cmd.SetArgs([]string{"--limit", "2310", "--checkpoint-dir", t.TempDir()})

	out, err := captureStdout(t, cmd.Execute)
	require.NoError(t, err)

	assert.Equal(t, a025487UpTo2310, enumeratedValues(t, out))
}

func TestEnumerateCommand_BatchWidthDoesNotChangeOutput(t *testing.T) {
	cmd := NewEnumerateCommand()
	cmd.SetArgs([]string{"--limit", "2310", "--batch", "97", "--checkpoint-dir", t.TempDir()})

	out, err := captureStdout(t, cmd.Execute)
	require.NoError(t, err)

	assert.Equal(t, a025487UpTo2310, enumeratedValues(t, out))
}

func TestEnumerateCommand_WritesCheckpoint(t *testing.T) {
	dir := t.TempDir()

	cmd := NewEnumerateCommand()
	cmd.SetArgs([]string{"--limit", "100", "--checkpoint-dir", dir})

	_, err := captureStdout(t, cmd.Execute)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "enumerate.json"))
	assert.FileExists(t, filepath.Join(dir, "restarts.lz4"))
}

func TestEnumerateCommand_NoCheckpointLeavesDirEmpty(t *testing.T) {
	dir := t.TempDir()

	cmd := NewEnumerateCommand()
	cmd.SetArgs([]string{"--limit", "100", "--checkpoint-dir", dir, "--no-checkpoint"})

	_, err := captureStdout(t, cmd.Execute)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "enumerate.json"))
}

func TestEnumerateCommand_RequiresLimit(t *testing.T) {
	cmd := NewEnumerateCommand()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	_, err := captureStdout(t, cmd.Execute)
	require.Error(t, err)
}
