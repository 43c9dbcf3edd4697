package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/internal/infra/shutdown"
	"github.com/yndnr/clikit/pkg/credential"
)

// stubPrompter answers every prompt with answer.
type stubPrompter struct {
	answer  string
	prompts []string
}

func (p *stubPrompter) Prompt(message string) (string, error) {
	p.prompts = append(p.prompts, message)
	return p.answer, nil
}

// testEnv is an isolated clikit installation.
type testEnv struct {
	t        *testing.T
	dir      string
	store    credential.Store
	prompter *stubPrompter
	extra    []string
	input    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return &testEnv{
		t:        t,
		dir:      dir,
		store:    credential.NewMemoryStore(),
		prompter: &stubPrompter{},
	}
}

func (e *testEnv) configFile() string {
	return filepath.Join(e.dir, AppName, "config.yaml")
}

// run executes clikit with global flags pointing at the test directory.
func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	opts := []Option{
		WithWriters(&out, &errOut),
		WithPrompter(e.prompter),
		WithShutdown(shutdown.NewHandler(time.Second)),
	}
	if e.store != nil {
		opts = append(opts, WithCredentialStore(e.store))
	}
	if e.input != "" {
		opts = append(opts, WithInput(strings.NewReader(e.input)))
	}

	argv := append([]string{AppName, "--config-dir", e.dir}, e.extra...)
	err = App(opts...).Run(append(argv, args...))
	return out.String(), errOut.String(), err
}

// mustRun fails the test when the command fails.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("clikit %v: %v\nstderr:\n%s", args, err, stderr)
	}
	return out
}

// runJSON runs with -o json and decodes the result.
func (e *testEnv) runJSON(args ...string) map[string]any {
	e.t.Helper()
	out := e.mustRun(append([]string{"-o", "json"}, args...)...)
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		e.t.Fatalf("clikit %v: output is not a JSON object: %v\n%s", args, err, out)
	}
	return v
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
