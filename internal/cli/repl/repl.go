package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/clikit/pkg/logger"
)

// Executor runs one parsed line.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
	logger    logger.Logger
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets where lines are read from and where prompts go.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets the prompt string.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// WithCompleter sets the command completer.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) {
		r.completer = c
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithLogger sets the logger for history errors.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) {
		r.logger = l
	}
}

// New creates a new REPL instance.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "> ",
		exec:      exec,
		completer: NewCompleter(nil),
		history:   NewHistory(""),
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, exit, or ctx is done. History is loaded before
// the first prompt and saved on return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("could not load history", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("could not save history", "error", err)
		}
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(r.input)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.output, r.prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(r.output)
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done := r.eval(ctx, line); done {
			return nil
		}
	}
}

// eval runs one line and reports whether the shell should exit.
func (r *REPL) eval(ctx context.Context, line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	case "complete":
		prefix := strings.Join(args[1:], " ")
		for _, s := range r.completer.Complete(prefix) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	if err := r.exec(ctx, args); err != nil && err.Error() != "" {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}

// SplitArgs splits a line into arguments like a POSIX shell would, without
// expansion.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(ch)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
