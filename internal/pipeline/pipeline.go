// Package pipeline supervises one gvcore-cli processing run: it spawns
// the executable, streams structured progress from its stdout, enforces
// cooperative cancellation, and reports a single terminal result.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"gameview-desktop/internal/jobs"
	"gameview-desktop/internal/progress"
)

// artifactFileName is the conventional output file gvcore-cli writes
// into the requested output directory on success.
const artifactFileName = "output.ply"

// Request contains input media and execution callbacks for one run.
type Request struct {
	Videos     []string
	OutputDir  string
	Preset     string
	ColmapPath string
	BrushPath  string
	Cancel     *jobs.CancelFlag
	OnProgress func(event progress.Event)
}

// Result holds the output artifact location of a successful run.
type Result struct {
	ArtifactPath string
}

// FailureReason classifies terminal pipeline failures.
type FailureReason string

const (
	ReasonSpawn     FailureReason = "spawn"
	ReasonIO        FailureReason = "io"
	ReasonExit      FailureReason = "exit"
	ReasonCancelled FailureReason = "cancelled"
)

// PipelineError is a reason-aware terminal error for one run.
type PipelineError struct {
	Reason   FailureReason
	Message  string
	ExitCode int
	Err      error
}

// Error formats pipeline failures for logs and UI.
func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason == ReasonExit {
		return fmt.Sprintf("%s: %s (exit=%d)", e.Reason, e.Message, e.ExitCode)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsCancelled reports whether err is a cancellation outcome, so callers
// can avoid presenting a user-requested stop as a failure.
func IsCancelled(err error) bool {
	var pipelineErr *PipelineError
	return errors.As(err, &pipelineErr) && pipelineErr.Reason == ReasonCancelled
}

// startedProcess is a handle to a running child owned by the supervisor.
type startedProcess interface {
	Stdout() io.Reader
	Stderr() string
	Kill() error
	Wait() (int, error)
}

// processStarter abstracts process spawning for testability.
type processStarter interface {
	Start(ctx context.Context, name string, args ...string) (startedProcess, error)
}

// execStarter spawns real processes via os/exec with piped stdout and
// captured stderr.
type execStarter struct{}

// Start spawns one command with stdout piped for streaming reads.
func (execStarter) Start(ctx context.Context, name string, args ...string) (startedProcess, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd, stdout: stdout, stderr: &stderr}, nil
}

// execProcess wraps one running exec.Cmd.
type execProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr *bytes.Buffer
}

// Stdout returns the child's streaming standard output.
func (p *execProcess) Stdout() io.Reader {
	return p.stdout
}

// Stderr returns standard error captured so far.
func (p *execProcess) Stderr() string {
	return p.stderr.String()
}

// Kill forcibly terminates the child process.
func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

// Wait awaits child exit and returns its exit code.
func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return code, err
	}
	return 0, nil
}

// cliResolver locates the gvcore-cli executable.
type cliResolver interface {
	CLIPath() string
}

// Pipeline supervises the external gvcore-cli processing executable.
type Pipeline struct {
	resolver cliResolver
	starter  processStarter
}

// NewPipeline constructs the production pipeline with OS dependencies.
func NewPipeline() *Pipeline {
	return &Pipeline{
		resolver: NewResolver(),
		starter:  execStarter{},
	}
}

// Run executes one processing job to a terminal result. Exactly one of
// (Result, error) is meaningful; every error is a *PipelineError.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.Cancel != nil {
		req.Cancel.Reset()
	}

	cliPath := p.resolver.CLIPath()
	args := buildProcessArgs(req)

	proc, err := p.starter.Start(ctx, cliPath, args...)
	if err != nil {
		return Result{}, &PipelineError{
			Reason:  ReasonSpawn,
			Message: fmt.Sprintf("failed to spawn %s: %v", cliPath, err),
			Err:     err,
		}
	}

	scanner := bufio.NewScanner(proc.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if req.Cancel != nil && req.Cancel.IsSet() {
			_ = proc.Kill()
			_, _ = proc.Wait()
			return Result{}, &PipelineError{
				Reason:  ReasonCancelled,
				Message: "processing cancelled",
			}
		}

		if !scanner.Scan() {
			break
		}

		// Plain diagnostic text from the child is interleaved with
		// structured records and is dropped here.
		event, ok := progress.Decode(scanner.Text())
		if !ok {
			continue
		}
		if req.OnProgress != nil {
			req.OnProgress(event)
		}
	}

	if err := scanner.Err(); err != nil {
		_ = proc.Kill()
		_, _ = proc.Wait()
		return Result{}, &PipelineError{
			Reason:  ReasonIO,
			Message: fmt.Sprintf("reading pipeline output: %v", err),
			Err:     err,
		}
	}

	code, waitErr := proc.Wait()
	if waitErr != nil || code != 0 {
		message := fmt.Sprintf("%s exited with status %d", cliPath, code)
		if detail := strings.TrimSpace(proc.Stderr()); detail != "" {
			message = fmt.Sprintf("%s: %s", message, lastLine(detail))
		}
		return Result{}, &PipelineError{
			Reason:   ReasonExit,
			Message:  message,
			ExitCode: code,
			Err:      waitErr,
		}
	}

	return Result{
		ArtifactPath: filepath.Join(req.OutputDir, artifactFileName),
	}, nil
}

// buildProcessArgs builds the gvcore-cli argument vector. Order is fixed
// so invocations are reproducible in logs and tests.
func buildProcessArgs(req Request) []string {
	args := []string{
		"process",
		"--output", req.OutputDir,
		"--preset", req.Preset,
	}

	for _, video := range req.Videos {
		args = append(args, "--video", video)
	}

	if req.ColmapPath != "" {
		args = append(args, "--colmap-path", req.ColmapPath)
	}
	if req.BrushPath != "" {
		args = append(args, "--brush-path", req.BrushPath)
	}

	return args
}

// lastLine returns the final non-empty line of captured stderr.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// NewPipelineForTests constructs a pipeline with injectable dependencies.
func NewPipelineForTests(resolver cliResolver, starter processStarter) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		starter:  starter,
	}
}
