package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()

	// `zuup -s -u foo` works like `zuup status -s -u foo`.
	args := os.Args[1:]
	if cmd, _, err := root.Find(args); err != nil || cmd == root {
		if !isHelpOrVersion(args) {
			args = append([]string{"status"}, args...)
		}
	}
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if ctx.Err() == nil {
			fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err))
		}
		os.Exit(exitStatus(err))
	}
}

// exitStatus surfaces the exit code of a failed verify or build
// command, so callers see the same status the child returned.
func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

func isHelpOrVersion(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help", "--version", "completion":
			return true
		}
	}
	return false
}
