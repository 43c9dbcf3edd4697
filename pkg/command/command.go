package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/pkg/output"
)

// Command is implemented by every toolkit command.
type Command interface {
	Name() string
	Usage() string
	Flags() []cli.Flag
	// Execute runs the command. A non-nil result is printed.
	Execute(c *cli.Context) (any, error)
}

// ArgsValidator is implemented by commands that check their arguments
// before Execute.
type ArgsValidator interface {
	ValidateArgs(c *cli.Context) error
}

// Error is a command failure with a process exit code.
type Error struct {
	Message  string
	ExitCode int
}

// NewError returns an Error with exit code 1.
func NewError(message string) *Error {
	return &Error{Message: message, ExitCode: 1}
}

// Errorf returns an Error with a formatted message and exit code 1.
func Errorf(format string, args ...any) *Error {
	return NewError(fmt.Sprintf(format, args...))
}

// WithExitCode sets the exit code and returns e.
func (e *Error) WithExitCode(code int) *Error {
	e.ExitCode = code
	return e
}

func (e *Error) Error() string {
	return e.Message
}

const (
	flagOutput  = "output"
	flagVerbose = "verbose"
)

// CommonFlags appends --output and --verbose unless flags already defines
// flags with those names.
func CommonFlags(flags []cli.Flag) []cli.Flag {
	out := append([]cli.Flag(nil), flags...)
	if !hasFlag(flags, flagOutput) {
		out = append(out, &cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		})
	}
	if !hasFlag(flags, flagVerbose) {
		out = append(out, &cli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		})
	}
	return out
}

func hasFlag(flags []cli.Flag, name string) bool {
	for _, f := range flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// OutputFormat returns the --output value nearest to c that was set
// explicitly, falling back to the default.
func OutputFormat(c *cli.Context) (output.Format, error) {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(flagOutput) {
			return output.ParseFormat(ctx.String(flagOutput))
		}
	}
	return output.ParseFormat(c.String(flagOutput))
}

// Verbose reports whether --verbose was given at any level.
func Verbose(c *cli.Context) bool {
	for _, ctx := range c.Lineage() {
		if ctx.Bool(flagVerbose) {
			return true
		}
	}
	return false
}
