package exec

import (
	"context"
	"time"

	"github.com/Praveenkumar76/skypad-backend/internal/format"
	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

// Error kinds annotating failed verdicts.
const (
	ErrKindCompile   = "compile_error"
	ErrKindRuntime   = "runtime_error"
	ErrKindTimeLimit = "time_limit"
)

// Verdict is the graded outcome of one test case.
type Verdict struct {
	Passed          bool
	ActualOutput    string
	ExecutionTimeMs int64
	ErrorKind       string
}

// Runner grades a submission against an ordered list of test cases.
type Runner struct {
	executor  Executor
	timeLimit time.Duration
}

func NewRunner(executor Executor, timeLimit time.Duration) *Runner {
	return &Runner{executor: executor, timeLimit: timeLimit}
}

// Run executes every test case in order and returns per-case verdicts plus
// the aggregate accepted flag. A compile failure short-circuits: all cases
// get the same compile-error verdict without invoking the sandbox again.
// The error return is infrastructure-only; wrong answers, runtime errors
// and timeouts are data.
func (r *Runner) Run(ctx context.Context, lang Language, code string, cases []models.TestCase) ([]Verdict, bool, error) {
	execn, err := r.executor.Prepare(ctx, lang, code)
	if err != nil {
		return nil, false, err
	}
	defer execn.Close()

	verdicts := make([]Verdict, 0, len(cases))

	if msg, failed := execn.CompileError(); failed {
		for range cases {
			verdicts = append(verdicts, Verdict{
				ActualOutput: msg,
				ErrorKind:    ErrKindCompile,
			})
		}
		return verdicts, false, nil
	}

	accepted := true
	for _, tc := range cases {
		res := execn.Run(ctx, tc.Input, r.timeLimit)
		v := Verdict{
			ActualOutput:    res.Stdout,
			ExecutionTimeMs: res.Duration.Milliseconds(),
		}
		switch {
		case res.TimedOut:
			v.ErrorKind = ErrKindTimeLimit
		case res.ExitCode != 0:
			v.ErrorKind = ErrKindRuntime
			if res.Stdout == "" {
				v.ActualOutput = res.Stderr
			}
		default:
			v.Passed = format.Compare(res.Stdout, tc.ExpectedOutput)
		}
		if !v.Passed {
			accepted = false
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, accepted && len(cases) > 0, nil
}
