package command

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/pkg/logger"
	"github.com/yndnr/clikit/pkg/model"
	"github.com/yndnr/clikit/pkg/output"
)

// Observer is told about every finished run.
type Observer func(command string, elapsed time.Duration, err error)

type cliOptions struct {
	observer     Observer
	stdout       io.Writer
	tableOptions output.TableOptions
	aliases      []string
	argsUsage    string
}

// Option configures ToCLI.
type Option func(*cliOptions)

// WithObserver registers a hook called after each run.
func WithObserver(o Observer) Option {
	return func(opts *cliOptions) {
		opts.observer = o
	}
}

// WithStdout overrides the result writer (default: the app's Writer).
func WithStdout(w io.Writer) Option {
	return func(opts *cliOptions) {
		opts.stdout = w
	}
}

// WithTableOptions customizes table output for model results.
func WithTableOptions(t output.TableOptions) Option {
	return func(opts *cliOptions) {
		opts.tableOptions = t
	}
}

// WithAliases sets alternative command names.
func WithAliases(aliases ...string) Option {
	return func(opts *cliOptions) {
		opts.aliases = aliases
	}
}

// WithArgsUsage sets the positional argument synopsis in help.
func WithArgsUsage(usage string) Option {
	return func(opts *cliOptions) {
		opts.argsUsage = usage
	}
}

// ToCLI adapts cmd to urfave/cli.
func ToCLI(cmd Command, opts ...Option) *cli.Command {
	o := &cliOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &cli.Command{
		Name:      cmd.Name(),
		Usage:     cmd.Usage(),
		Aliases:   o.aliases,
		ArgsUsage: o.argsUsage,
		Flags:     CommonFlags(cmd.Flags()),
		Action: func(c *cli.Context) error {
			format, err := OutputFormat(c)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			start := time.Now()
			result, err := SafeExecute(cmd, c)
			if o.observer != nil {
				o.observer(cmd.Name(), time.Since(start), err)
			}
			if err != nil {
				return exit(err)
			}
			if result == nil {
				return nil
			}

			w := o.stdout
			if w == nil {
				w = c.App.Writer
			}
			p := output.NewPrinter(w, format, output.WithPrinterLogger(logger.FromContext(c.Context)))

			switch r := result.(type) {
			case *model.Model:
				err = p.PrintModels([]*model.Model{r}, o.tableOptions)
			case []*model.Model:
				err = p.PrintModels(r, o.tableOptions)
			default:
				err = p.Print(result)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("print result: %v", err), 1)
			}
			return nil
		},
	}
}

func exit(err error) error {
	if ce, ok := err.(*Error); ok {
		return cli.Exit(ce.Message, ce.ExitCode)
	}
	return cli.Exit(err.Error(), 1)
}

// Group returns a command that only holds subcommands.
func Group(name, usage string, subcommands ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		Subcommands: subcommands,
	}
}

// NewApp creates an application.
//
// Running it without a command prints help and fails with exit code 1; an
// unknown command fails with "Unknown command: NAME". Exit codes are left
// to the caller: Run returns a cli.ExitCoder instead of exiting.
func NewApp(name, usage string, commands ...*cli.Command) *cli.App {
	return &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Metadata: map[string]any{},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return cli.Exit(fmt.Sprintf("Unknown command: %s", c.Args().First()), 1)
			}
			if err := cli.ShowAppHelp(c); err != nil {
				return err
			}
			return cli.Exit("", 1)
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}
