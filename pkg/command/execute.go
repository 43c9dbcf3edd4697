package command

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/pkg/logger"
)

// SafeExecute validates and runs cmd.
//
// With --verbose the log level is raised to debug. A returned *Error is
// logged and passed through. Any other error, or a panic, is logged and
// returned as an *Error with the message "Unexpected error: ...".
func SafeExecute(cmd Command, c *cli.Context) (result any, err error) {
	runID := ulid.Make().String()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.FromContext(ctx).With("command", cmd.Name(), "run_id", runID)
	c.Context = logger.WithRunID(logger.WithLogger(ctx, log), runID)

	if Verbose(c) {
		logger.SetLevel("debug")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("command panicked", "panic", r, "stack", string(debug.Stack()))
			result = nil
			err = NewError(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	log.Debug("executing command", "args", c.Args().Slice())

	if v, ok := cmd.(ArgsValidator); ok {
		if err := v.ValidateArgs(c); err != nil {
			return nil, wrap(log, err)
		}
	}

	result, err = cmd.Execute(c)
	if err != nil {
		return nil, wrap(log, err)
	}
	return result, nil
}

func wrap(log logger.Logger, err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		log.Error(ce.Message)
		return ce
	}
	log.Error("unexpected error executing command", "error", err)
	return NewError("Unexpected error: " + err.Error())
}
