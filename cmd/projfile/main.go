// SPDX-License-Identifier: MIT

// projfile inspects, validates and rewrites analyzer project files.
//
// Usage:
//
//	projfile show app.cppcheck
//	projfile validate a.cppcheck b.cppcheck
//	projfile rewrite app.cppcheck -o clean.cppcheck
//	projfile diff old.cppcheck new.cppcheck
//	projfile watch app.cppcheck
//
// Exit codes:
//   - 0: success
//   - 1: a file could not be read or written, or diff found differences
//   - 2: usage or configuration error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/projfile/internal/config"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error { return &exitError{code: exitFailure, err: err} }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return exitUsage
	}

	root := newRootCmd(settings)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err = root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
	return exitUsage
}
