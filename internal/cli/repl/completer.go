package repl

import (
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

var builtins = []string{"complete", "exit", "help", "history", "quit"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer for the given command paths plus the
// shell built-ins.
func NewCompleter(commands []string) *Completer {
	all := append(append([]string(nil), commands...), builtins...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// FromCommands collects every command path ("config", "config show", ...)
// in a urfave/cli command tree. Hidden commands are skipped.
func FromCommands(cmds []*cli.Command) *Completer {
	var paths []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, c := range cmds {
			if c.Hidden {
				continue
			}
			path := strings.TrimSpace(prefix + " " + c.Name)
			paths = append(paths, path)
			walk(path, c.Subcommands)
		}
	}
	walk("", cmds)
	return NewCompleter(paths)
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
