// Package runner executes the external runner command with a rendered
// prompt. Implementations must be safe for stubbing in tests.
package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/errors"
)

// Result holds the outcome of one runner invocation. A nonzero exit code is
// a Result, not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Options holds optional parameters for one invocation.
type Options struct {
	// CaptureOutput buffers stdout/stderr into the Result instead of
	// passing them through to the terminal.
	CaptureOutput bool
}

// Runner is the external command execution capability.
type Runner interface {
	// Run blocks until the process exits. It returns an error only for
	// execution failures: command not on PATH, OS-level start failures,
	// context cancellation.
	Run(ctx context.Context, profile config.RunnerProfile, prompt string, opts Options) (Result, error)
}

// CommandLine builds the argv for a profile and prompt. In arg mode the
// prompt is appended after the prompt flag; in stdin mode it is not part of
// the argv at all.
func CommandLine(profile config.RunnerProfile, prompt string) []string {
	argv := append([]string{profile.Command}, profile.Args...)
	if profile.PromptMode == config.PromptModeArg {
		argv = append(argv, profile.PromptFlag, prompt)
	}
	return argv
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the profile command, delivering the prompt per the profile's
// prompt mode.
func (r *ExecRunner) Run(ctx context.Context, profile config.RunnerProfile, prompt string, opts Options) (Result, error) {
	if _, err := exec.LookPath(profile.Command); err != nil {
		return Result{}, errors.Newf(errors.CodeRunnerNotFound,
			"runner command `%s` was not found in PATH. Update config with a valid command or use --dry-run",
			profile.Command)
	}

	argv := CommandLine(profile, prompt)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if profile.PromptMode == config.PromptModeStdin {
		cmd.Stdin = strings.NewReader(prompt)
	}

	var stdout, stderr bytes.Buffer
	if opts.CaptureOutput {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, errors.Wrapf(errors.CodeRunnerExecFailure, err, "failed to execute runner command: %v", err)
	}
	return result, nil
}
