package command

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/internal/cli/repl"
	"github.com/yndnr/clikit/internal/infra/shutdown"
	"github.com/yndnr/clikit/pkg/command"
	"github.com/yndnr/clikit/pkg/logger"
)

// WithInput sets where the shell reads lines from (default: stdin).
func WithInput(r io.Reader) Option {
	return func(rt *runtime) {
		rt.stdin = r
	}
}

type shellCmd struct{ rt *runtime }

func (shellCmd) Name() string      { return "shell" }
func (shellCmd) Usage() string     { return "Run commands interactively" }
func (shellCmd) Flags() []cli.Flag { return nil }

func (s shellCmd) Execute(c *cli.Context) (any, error) {
	rt := s.rt
	if rt.nested {
		return nil, command.NewError("Already in a shell")
	}

	// Every line runs in a fresh app so configuration edits are picked up.
	// The shell's --config-dir carries over.
	var globals []string
	if dir := c.String("config-dir"); dir != "" {
		globals = append(globals, "--config-dir", dir)
	}
	exec := func(ctx context.Context, args []string) error {
		child := App(
			WithWriters(c.App.Writer, c.App.ErrWriter),
			WithCredentialStore(rt.store),
			WithPrompter(rt.prompter),
			WithShutdown(shutdown.NewHandler(5*time.Second)),
			nestedShell(),
		)
		argv := append(append([]string{AppName}, globals...), args...)
		return child.RunContext(ctx, argv)
	}

	in := rt.stdin
	if in == nil {
		in = c.App.Reader
	}
	r := repl.New(exec,
		repl.WithIO(in, c.App.Writer),
		repl.WithPrompt(AppName+"> "),
		repl.WithCompleter(repl.FromCommands(c.App.Commands)),
		repl.WithHistory(repl.NewHistory(filepath.Join(filepath.Dir(resolverFrom(c).FilePath()), "history"))),
		repl.WithLogger(logger.FromContext(c.Context)),
	)
	if err := r.Run(c.Context); err != nil {
		return nil, command.Errorf("Shell failed: %v", err)
	}
	return nil, nil
}

func nestedShell() Option {
	return func(rt *runtime) {
		rt.nested = true
	}
}
