package exec

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrepareRejectsInvalidJavaBeforeCompiling(t *testing.T) {
	sb := NewSandbox(t.TempDir(), zap.NewNop())

	execn, err := sb.Prepare(context.Background(), LangJava, "class Solution {}")
	require.NoError(t, err)
	defer execn.Close()

	msg, failed := execn.CompileError()
	assert.True(t, failed)
	assert.Contains(t, msg, "public class Main")

	// Running anyway yields the same diagnostics instead of spawning anything.
	res := execn.Run(context.Background(), "", time.Second)
	assert.NotZero(t, res.ExitCode)
	assert.Contains(t, res.Stderr, "public class Main")
}

func TestPrepareUnknownLanguage(t *testing.T) {
	sb := NewSandbox(t.TempDir(), zap.NewNop())
	_, err := sb.Prepare(context.Background(), Language("brainfuck"), "+")
	assert.Error(t, err)
}

func TestCloseRemovesWorkspace(t *testing.T) {
	base := t.TempDir()
	sb := NewSandbox(base, zap.NewNop())

	execn, err := sb.Prepare(context.Background(), LangPython, "print(1)")
	require.NoError(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1, "workspace created under base dir")

	execn.Close()

	entries, err = os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace removed on Close")
}

func TestRunCommandCapturesStdoutAndStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res := runCommand(context.Background(), t.TempDir(), []string{"sh", "-c", "cat"}, "hello\n", 5*time.Second)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestRunCommandExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res := runCommand(context.Background(), t.TempDir(), []string{"sh", "-c", "echo boom >&2; exit 3"}, "", 5*time.Second)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "boom")
}

func TestRunCommandKillsForkedChildren(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	// The shell exits immediately but leaves a background child holding
	// the output pipe. The run must still end at the deadline, not when
	// the orphan feels like exiting.
	started := time.Now()
	res := runCommand(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "sleep 5 & echo hi"}, "", 300*time.Millisecond)
	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(started), 3*time.Second, "orphaned child must not extend the run")
}

func TestRunCommandTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	started := time.Now()
	res := runCommand(context.Background(), t.TempDir(), []string{"sh", "-c", "sleep 10"}, "", 200*time.Millisecond)
	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(started), 5*time.Second, "process killed at the deadline")
}
