// Command dist-tag adds, removes, and lists npm dist-tags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/git-pkgs/disttag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var usage *disttag.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(stderr, usage.Usage)
		return exitUsage
	}
	fmt.Fprintf(stderr, "dist-tag: %v\n", err)
	return exitError
}
