package git

import (
	"bytes"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands. The default implementation
// shells out; tests inject a mock to script command results.
type CommandRunner interface {
	// Run executes a command in dir and returns trimmed stdout.
	// A failed command returns a *CommandError.
	Run(dir, name string, args ...string) (string, error)
}

// CommandError wraps a failed command execution with its output.
type CommandError struct {
	Command string   // Command that was run (e.g., "git")
	Args    []string // Command arguments
	Output  string   // Combined stdout/stderr output
	Err     error    // Underlying error (usually *exec.ExitError)
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return e.Command + " " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner that executes real commands.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command in dir and returns trimmed stdout.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stdout.String() + stderr.String())
		return "", &CommandError{
			Command: name,
			Args:    args,
			Output:  output,
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// MockRunner scripts command results for tests. Commands are matched by
// their joined invocation string; unmatched commands return DefaultOutput.
type MockRunner struct {
	// Results maps "name arg1 arg2 ..." to a scripted result.
	Results map[string]MockResult

	// DefaultOutput is returned for invocations with no scripted result.
	DefaultOutput string

	// Calls records every invocation in order.
	Calls []string
}

// MockResult is a scripted command outcome.
type MockResult struct {
	Output string
	Err    error
}

// NewMockRunner creates an empty mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{Results: make(map[string]MockResult)}
}

// Stub scripts the result for an invocation.
func (m *MockRunner) Stub(invocation string, output string, err error) {
	m.Results[invocation] = MockResult{Output: output, Err: err}
}

// Run returns the scripted result for the invocation.
func (m *MockRunner) Run(dir, name string, args ...string) (string, error) {
	invocation := name
	if len(args) > 0 {
		invocation += " " + strings.Join(args, " ")
	}
	m.Calls = append(m.Calls, invocation)

	if result, ok := m.Results[invocation]; ok {
		return result.Output, result.Err
	}
	return m.DefaultOutput, nil
}
