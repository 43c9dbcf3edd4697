// Package main provides the entry point for clikit.
//
// clikit is the demo tool for the toolkit packages under pkg/: layered
// configuration, credentials, formatted output and update checks.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/internal/cli/command"
	"github.com/yndnr/clikit/internal/infra/shutdown"
)

func main() {
	sd := shutdown.NewHandler(5 * time.Second)
	ctx, stop := sd.WithSignals(context.Background())

	err := command.App(command.WithShutdown(sd)).RunContext(ctx, os.Args)
	stop()
	// No-op when After already ran.
	if serr := sd.Shutdown(); serr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", serr)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return ec.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
