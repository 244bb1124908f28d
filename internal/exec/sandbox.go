// Package exec runs untrusted submissions against test inputs. Each
// execution gets a throwaway workspace and a wall-clock deadline; compiled
// languages compile once and reuse the artifact across test cases.
//
// Isolation is workspace + timeout only. Memory and CPU limits (cgroups,
// rlimits) are a hardening opportunity, not implemented here.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompileTimeout bounds the compile phase. It is fixed and independent of
// the per-test-case time limit.
const CompileTimeout = 10 * time.Second

// RunResult is the raw outcome of one program run against one input.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Execution is a prepared workspace for one submission: source written,
// compile phase done if the language has one. Close always removes the
// workspace and everything generated in it.
type Execution interface {
	// CompileError returns the compiler diagnostics when the compile phase
	// failed; ok is false for a clean compile or an interpreted language.
	CompileError() (msg string, failed bool)
	Run(ctx context.Context, stdin string, timeLimit time.Duration) RunResult
	Close()
}

// Executor prepares executions. Satisfied by *Sandbox; faked in tests.
type Executor interface {
	Prepare(ctx context.Context, lang Language, source string) (Execution, error)
}

// Sandbox prepares isolated workspaces under a base directory.
type Sandbox struct {
	baseDir string
	log     *zap.Logger
}

func NewSandbox(baseDir string, log *zap.Logger) *Sandbox {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Sandbox{baseDir: baseDir, log: log}
}

type execution struct {
	workDir    string
	spec       LanguageSpec
	compileMsg string
	compileBad bool
	log        *zap.Logger
}

// Prepare writes the source into a fresh workspace and runs the compile
// phase for compiled languages. A compile failure is a result, not an
// error: the returned Execution reports it via CompileError. The error
// return is reserved for infrastructure problems (workspace creation,
// source write).
func (s *Sandbox) Prepare(ctx context.Context, lang Language, source string) (Execution, error) {
	spec, err := langSpec(lang)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(s.baseDir, "job-"+uuid.New().String()[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	e := &execution{workDir: workDir, spec: spec, log: s.log}

	if msg := validateSource(lang, source); msg != "" {
		e.compileMsg, e.compileBad = msg, true
		return e, nil
	}

	srcPath := workDir + string(os.PathSeparator) + spec.FileName
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		e.Close()
		return nil, fmt.Errorf("write source: %w", err)
	}

	if spec.Compiled() {
		res := runCommand(ctx, workDir, spec.CompileCmd, "", CompileTimeout)
		if res.TimedOut || res.ExitCode != 0 {
			msg := strings.TrimSpace(res.Stderr)
			if msg == "" {
				msg = strings.TrimSpace(res.Stdout)
			}
			if res.TimedOut {
				msg = "compilation timed out"
			}
			if msg == "" {
				msg = fmt.Sprintf("compiler exited with status %d", res.ExitCode)
			}
			e.compileMsg, e.compileBad = msg, true
		}
	}
	return e, nil
}

func (e *execution) CompileError() (string, bool) { return e.compileMsg, e.compileBad }

func (e *execution) Run(ctx context.Context, stdin string, timeLimit time.Duration) RunResult {
	if e.compileBad {
		return RunResult{ExitCode: -1, Stderr: e.compileMsg}
	}
	return runCommand(ctx, e.workDir, e.spec.ExecCmd, stdin, timeLimit)
}

// Close removes the workspace on every exit path. Failures are logged and
// swallowed; cleanup must never turn into an execution failure.
func (e *execution) Close() {
	if err := os.RemoveAll(e.workDir); err != nil {
		e.log.Warn("workspace cleanup failed",
			zap.String("workDir", e.workDir), zap.Error(err))
	}
}

func runCommand(ctx context.Context, workDir string, argv []string, stdin string, timeout time.Duration) RunResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := osexec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = workDir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	// A submission may fork. Cancellation kills the whole process group so
	// orphaned children cannot outlive the limit, and WaitDelay unblocks
	// Wait even if something survives holding the output pipes.
	setProcessGroup(cmd)
	cmd.WaitDelay = time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	started := time.Now()
	err := cmd.Run()
	duration := time.Since(started)

	res := RunResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: duration,
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		return res
	}
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			if res.Stderr == "" {
				res.Stderr = err.Error()
			}
		}
	}
	return res
}
