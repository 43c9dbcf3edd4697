package command

import (
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestCredential_SetGetDelete(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("credential", "set", "--secret", "s3cret", "bob")
	if got := env.runJSON("credential", "get", "--show", "bob"); got["credential"] != "s3cret" {
		t.Errorf("credential = %v, want s3cret", got["credential"])
	}
	if got := env.runJSON("credential", "get", "bob"); got["credential"] != maskedSecret {
		t.Errorf("credential without --show = %v, want mask", got["credential"])
	}

	env.mustRun("credential", "delete", "bob")
	_, _, err := env.run("credential", "get", "--no-prompt", "bob")
	if exitCode(err) != 1 || err.Error() != "No credential stored for bob" {
		t.Errorf("get after delete: err = %v (exit %d)", err, exitCode(err))
	}
	if _, _, err := env.run("credential", "delete", "bob"); exitCode(err) != 1 {
		t.Errorf("second delete: exit code = %d, want 1", exitCode(err))
	}
}

func TestCredentialGet_Prompts(t *testing.T) {
	env := newTestEnv(t)
	env.prompter.answer = "typed"

	got := env.runJSON("credential", "get", "--show", "--description", "API token", "alice")
	if got["credential"] != "typed" {
		t.Errorf("credential = %v, want typed", got["credential"])
	}
	if len(env.prompter.prompts) != 1 || !strings.Contains(env.prompter.prompts[0], "API token not found for alice") {
		t.Errorf("prompts = %q", env.prompter.prompts)
	}

	// The answer was stored, so the next lookup does not prompt.
	env.runJSON("credential", "get", "alice")
	if len(env.prompter.prompts) != 1 {
		t.Errorf("prompted again: %q", env.prompter.prompts)
	}
}

func TestCredentialSet_PromptsForSecret(t *testing.T) {
	env := newTestEnv(t)
	env.prompter.answer = "from-prompt"
	env.mustRun("credential", "set", "carol")

	if got := env.runJSON("credential", "get", "--show", "carol"); got["credential"] != "from-prompt" {
		t.Errorf("credential = %v, want from-prompt", got["credential"])
	}
}

func TestCredentialSet_Empty(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.run("credential", "set", "dave"); exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}

func TestCredential_KeyringBackend(t *testing.T) {
	keyring.MockInit()
	env := newTestEnv(t)
	env.store = nil

	env.mustRun("credential", "set", "--secret", "k", "erin")
	if got, err := keyring.Get(AppName, "erin"); err != nil || got != "k" {
		t.Errorf("keyring.Get() = %q, %v; want k", got, err)
	}
}

func TestCredential_FileBackend(t *testing.T) {
	env := newTestEnv(t)
	env.store = nil
	t.Setenv("CLIKIT_CREDENTIAL_BACKEND", "file")
	t.Setenv("CLIKIT_CREDENTIAL_PASSPHRASE", "correct horse")

	env.mustRun("credential", "set", "--secret", "f1", "frank")
	if got := env.runJSON("credential", "get", "--show", "frank"); got["credential"] != "f1" {
		t.Errorf("credential = %v, want f1", got["credential"])
	}
}

func TestCredential_UnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	env.store = nil
	t.Setenv("CLIKIT_CREDENTIAL_BACKEND", "vault")

	_, _, err := env.run("credential", "get", "bob")
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}
