package command

import (
	"errors"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/pkg/command"
	"github.com/yndnr/clikit/pkg/credential"
	"github.com/yndnr/clikit/pkg/logger"
	"github.com/yndnr/clikit/pkg/model"
)

const maskedSecret = "********"

// credentialCommand returns the credential subcommand group.
func credentialCommand(rt *runtime) *cli.Command {
	obs := command.WithObserver(rt.observe("credential"))
	return command.Group("credential", "Manage stored credentials",
		command.ToCLI(credentialGet{rt}, obs, command.WithArgsUsage("USER")),
		command.ToCLI(credentialSet{rt}, obs, command.WithArgsUsage("USER")),
		command.ToCLI(credentialDelete{rt}, obs, command.WithArgsUsage("USER")),
	)
}

// credentialStore builds the store named by credential.backend.
func (rt *runtime) credentialStore(c *cli.Context) (credential.Store, error) {
	if rt.store != nil {
		return rt.store, nil
	}

	r := resolverFrom(c)
	switch backend := r.GetString("credential.backend", "keyring"); backend {
	case "keyring":
		return credential.NewKeyringStore(), nil
	case "file":
		path := r.GetString("credential.file", "")
		if path == "" {
			path = filepath.Join(filepath.Dir(r.FilePath()), "credentials.json")
		}
		pass := r.GetString("credential.passphrase", "")
		if pass == "" {
			var err error
			if pass, err = rt.prompter.Prompt("Passphrase for " + path + ": "); err != nil {
				return nil, err
			}
		}
		s, err := credential.NewFileStore(path, []byte(pass))
		if err != nil {
			return nil, command.NewError(err.Error())
		}
		return s, nil
	default:
		return nil, usageError("Unknown credential backend: %s (want keyring or file)", backend)
	}
}

func (rt *runtime) manager(c *cli.Context) (*credential.Manager, error) {
	store, err := rt.credentialStore(c)
	if err != nil {
		return nil, err
	}
	return credential.NewManager(AppName,
		credential.WithStore(store),
		credential.WithPrompter(rt.prompter),
		credential.WithManagerLogger(logger.FromContext(c.Context)),
	), nil
}

func credentialModel(user, secret string, show bool) *model.Model {
	if !show {
		secret = maskedSecret
	}
	m := model.New(nil)
	m.Set("user", user)
	m.Set("credential", secret)
	return m
}

type credentialGet struct{ rt *runtime }

func (credentialGet) Name() string  { return "get" }
func (credentialGet) Usage() string { return "Look up a credential, prompting when none is stored" }

func (credentialGet) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "no-prompt", Usage: "Fail instead of asking for a missing credential"},
		&cli.BoolFlag{Name: "show", Usage: "Print the secret instead of a mask"},
		&cli.StringFlag{Name: "description", Usage: "What the credential is, used in prompts", Value: "password"},
	}
}

func (credentialGet) ValidateArgs(c *cli.Context) error {
	return exactArgs(c, 1, "USER")
}

func (g credentialGet) Execute(c *cli.Context) (any, error) {
	m, err := g.rt.manager(c)
	if err != nil {
		return nil, err
	}
	user := c.Args().First()
	secret, err := m.Get(user, c.String("description"), !c.Bool("no-prompt"))
	if errors.Is(err, credential.ErrNotFound) {
		return nil, command.Errorf("No credential stored for %s", user)
	}
	if err != nil {
		return nil, err
	}
	return credentialModel(user, secret, c.Bool("show")), nil
}

type credentialSet struct{ rt *runtime }

func (credentialSet) Name() string  { return "set" }
func (credentialSet) Usage() string { return "Store a credential" }

func (credentialSet) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "secret", Usage: "Secret to store (default: prompt)"},
		&cli.StringFlag{Name: "description", Usage: "What the credential is, used in prompts", Value: "password"},
	}
}

func (credentialSet) ValidateArgs(c *cli.Context) error {
	return exactArgs(c, 1, "USER")
}

func (s credentialSet) Execute(c *cli.Context) (any, error) {
	m, err := s.rt.manager(c)
	if err != nil {
		return nil, err
	}
	user, desc := c.Args().First(), c.String("description")

	secret := c.String("secret")
	if secret == "" {
		if secret, err = s.rt.prompter.Prompt("Enter your " + desc + " for " + user + ": "); err != nil {
			return nil, err
		}
	}
	if secret == "" {
		return nil, usageError("Refusing to store an empty %s", desc)
	}
	if err := m.Set(user, secret, desc); err != nil {
		return nil, command.Errorf("Failed to store credential: %v", err)
	}
	return credentialModel(user, secret, false), nil
}

type credentialDelete struct{ rt *runtime }

func (credentialDelete) Name() string      { return "delete" }
func (credentialDelete) Usage() string     { return "Remove a stored credential" }
func (credentialDelete) Flags() []cli.Flag { return nil }

func (credentialDelete) ValidateArgs(c *cli.Context) error {
	return exactArgs(c, 1, "USER")
}

func (d credentialDelete) Execute(c *cli.Context) (any, error) {
	m, err := d.rt.manager(c)
	if err != nil {
		return nil, err
	}
	user := c.Args().First()
	if err := m.Delete(user); err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return nil, command.Errorf("No credential stored for %s", user)
		}
		return nil, command.Errorf("Failed to delete credential: %v", err)
	}
	return nil, nil
}
