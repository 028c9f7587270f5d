package main

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/sileht/zuup/git"
)

func TestExitStatus(t *testing.T) {
	childErr := exec.Command("sh", "-c", "exit 3").Run()
	var exitErr *exec.ExitError
	if !errors.As(childErr, &exitErr) {
		t.Fatalf("child error = %T, want *exec.ExitError", childErr)
	}

	wrapped := fmt.Errorf("verify: %w", &git.CommandError{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
		Err:     childErr,
	})

	if got := exitStatus(wrapped); got != 3 {
		t.Errorf("exitStatus(wrapped child failure) = %d, want 3", got)
	}
	if got := exitStatus(errors.New("not a command failure")); got != 1 {
		t.Errorf("exitStatus(plain error) = %d, want 1", got)
	}
}
