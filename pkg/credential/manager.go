package credential

import (
	"errors"
	"fmt"

	"github.com/yndnr/clikit/pkg/logger"
)

// Manager reads and writes credentials for one module.
//
// It remembers the username and credential of the last Get or Set.
type Manager struct {
	module   string
	store    Store
	prompter Prompter
	logger   logger.Logger

	username   string
	credential string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore sets the backing store (default: the OS keychain).
func WithStore(s Store) ManagerOption {
	return func(m *Manager) {
		m.store = s
	}
}

// WithPrompter sets how missing credentials are asked for.
func WithPrompter(p Prompter) ManagerOption {
	return func(m *Manager) {
		m.prompter = p
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(l logger.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a manager for module.
func NewManager(module string, opts ...ManagerOption) *Manager {
	m := &Manager{
		module:   module,
		store:    NewKeyringStore(),
		prompter: NewTerminalPrompter(),
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the credential for user.
//
// When none is stored and prompt is true the user is asked for it, and a
// non-empty answer is stored. ErrNotFound is returned when no credential is
// available in the end.
func (m *Manager) Get(user, description string, prompt bool) (string, error) {
	if description == "" {
		description = "credential"
	}
	m.username = user

	secret, err := m.store.Get(m.module, user)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if secret == "" && prompt {
		msg := fmt.Sprintf("%s not found for %s; please enter it now\nEnter your %s: ", description, user, description)
		if secret, err = m.prompter.Prompt(msg); err != nil {
			return "", err
		}
		if secret != "" {
			if err := m.Set(user, secret, description); err != nil {
				// The entered secret is still usable for this run.
				m.logger.Warn("credential not stored", "user", user, "error", err)
			}
		}
	}

	m.credential = secret
	if secret == "" {
		return "", ErrNotFound
	}
	return secret, nil
}

// Set stores secret for user.
func (m *Manager) Set(user, secret, description string) error {
	if description == "" {
		description = "credential"
	}
	if err := m.store.Set(m.module, user, secret); err != nil {
		m.logger.Error("failed to store credential", "description", description, "user", user, "error", err)
		return fmt.Errorf("store %s for %s: %w", description, user, err)
	}
	m.username = user
	m.credential = secret
	m.logger.Debug("credential stored", "description", description, "user", user)
	return nil
}

// Delete removes the credential for user.
func (m *Manager) Delete(user string) error {
	if err := m.store.Delete(m.module, user); err != nil {
		m.logger.Error("failed to delete credential", "user", user, "error", err)
		return fmt.Errorf("delete credential for %s: %w", user, err)
	}
	if m.username == user {
		m.credential = ""
	}
	return nil
}

// Module returns the keychain service name.
func (m *Manager) Module() string {
	return m.module
}

// Username returns the user of the last Get or Set.
func (m *Manager) Username() string {
	return m.username
}

// Credential returns the secret of the last Get or Set.
func (m *Manager) Credential() string {
	return m.credential
}
