package credential

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for a secret.
type Prompter interface {
	Prompt(message string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string) (string, error)

// Prompt calls f(message).
func (f PrompterFunc) Prompt(message string) (string, error) {
	return f(message)
}

// TerminalPrompter reads a secret without echo when In is a terminal, and a
// plain line otherwise (piped input).
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalPrompter prompts on stderr and reads stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

func (p *TerminalPrompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.Out, message)

	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
