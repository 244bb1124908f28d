package exec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// fakeExecution scripts one RunResult per test case, in order.
type fakeExecution struct {
	compileMsg string
	compileBad bool
	results    []RunResult
	next       int
	closed     bool
}

func (f *fakeExecution) CompileError() (string, bool) { return f.compileMsg, f.compileBad }

func (f *fakeExecution) Run(_ context.Context, _ string, _ time.Duration) RunResult {
	if f.next >= len(f.results) {
		return RunResult{ExitCode: -1, Stderr: "no scripted result"}
	}
	res := f.results[f.next]
	f.next++
	return res
}

func (f *fakeExecution) Close() { f.closed = true }

type fakeExecutor struct {
	execution *fakeExecution
	err       error
}

func (f *fakeExecutor) Prepare(_ context.Context, _ Language, _ string) (Execution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.execution, nil
}

func twoCases() []models.TestCase {
	return []models.TestCase{
		{Input: "1 2\n", ExpectedOutput: "3"},
		{Input: "5 7\n", ExpectedOutput: "12"},
	}
}

func TestRunAllPassed(t *testing.T) {
	fe := &fakeExecution{results: []RunResult{
		{Stdout: "3\n", Duration: 12 * time.Millisecond},
		{Stdout: "12\n", Duration: 9 * time.Millisecond},
	}}
	runner := NewRunner(&fakeExecutor{execution: fe}, 2*time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangPython, "code", twoCases())
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Passed)
	assert.True(t, verdicts[1].Passed)
	assert.Empty(t, verdicts[0].ErrorKind)
	assert.True(t, fe.closed, "workspace must be released")
}

func TestRunWrongAnswer(t *testing.T) {
	fe := &fakeExecution{results: []RunResult{
		{Stdout: "3\n"},
		{Stdout: "13\n"},
	}}
	runner := NewRunner(&fakeExecutor{execution: fe}, 2*time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangPython, "code", twoCases())
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.True(t, verdicts[0].Passed)
	assert.False(t, verdicts[1].Passed)
	assert.Empty(t, verdicts[1].ErrorKind, "wrong answer is not an error kind")
}

func TestRunCompileErrorShortCircuits(t *testing.T) {
	fe := &fakeExecution{compileMsg: "main.cpp:3: expected ';'", compileBad: true}
	runner := NewRunner(&fakeExecutor{execution: fe}, 2*time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangCPP, "broken", twoCases())
	require.NoError(t, err)
	assert.False(t, accepted)
	require.Len(t, verdicts, 2)
	for _, v := range verdicts {
		assert.False(t, v.Passed)
		assert.Equal(t, ErrKindCompile, v.ErrorKind)
		assert.Equal(t, "main.cpp:3: expected ';'", v.ActualOutput)
	}
	assert.Equal(t, 0, fe.next, "sandbox must not run cases after a compile failure")
	assert.True(t, fe.closed)
}

func TestRunMixedRuntimeFailures(t *testing.T) {
	fe := &fakeExecution{results: []RunResult{
		{Stdout: "3\n"},
		{ExitCode: 1, Stderr: "panic: index out of range"},
	}}
	runner := NewRunner(&fakeExecutor{execution: fe}, 2*time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangGo, "code", twoCases())
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.True(t, verdicts[0].Passed)
	assert.Equal(t, ErrKindRuntime, verdicts[1].ErrorKind)
	assert.Equal(t, "panic: index out of range", verdicts[1].ActualOutput)
}

func TestRunTimeLimit(t *testing.T) {
	fe := &fakeExecution{results: []RunResult{
		{TimedOut: true, ExitCode: -1, Duration: 2 * time.Second},
		{Stdout: "12\n"},
	}}
	runner := NewRunner(&fakeExecutor{execution: fe}, 2*time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangJava, "code", twoCases())
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, ErrKindTimeLimit, verdicts[0].ErrorKind)
	assert.True(t, verdicts[1].Passed, "later cases still run after a timeout")
}

func TestRunEmptyCaseListNotAccepted(t *testing.T) {
	fe := &fakeExecution{}
	runner := NewRunner(&fakeExecutor{execution: fe}, time.Second)

	verdicts, accepted, err := runner.Run(context.Background(), LangPython, "code", nil)
	require.NoError(t, err)
	assert.Empty(t, verdicts)
	assert.False(t, accepted)
}

func TestRunInfrastructureError(t *testing.T) {
	runner := NewRunner(&fakeExecutor{err: errors.New("disk full")}, time.Second)

	_, _, err := runner.Run(context.Background(), LangPython, "code", twoCases())
	assert.Error(t, err)
}
