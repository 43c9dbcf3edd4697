package credential

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no credential is stored for a service/user.
var ErrNotFound = errors.New("credential: not found")

// Store persists credentials.
type Store interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
	Delete(service, user string) error
}

// KeyringStore keeps credentials in the OS keychain.
type KeyringStore struct{}

// NewKeyringStore returns a keychain-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (KeyringStore) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if err != nil {
		return "", keyringErr("get", err)
	}
	return secret, nil
}

func (KeyringStore) Set(service, user, secret string) error {
	if err := keyring.Set(service, user, secret); err != nil {
		return keyringErr("set", err)
	}
	return nil
}

func (KeyringStore) Delete(service, user string) error {
	if err := keyring.Delete(service, user); err != nil {
		return keyringErr("delete", err)
	}
	return nil
}

func keyringErr(op string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("keyring %s: %w", op, err)
}

// MemoryStore keeps credentials in memory.
type MemoryStore struct {
	mu      sync.Mutex
	secrets map[string]map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: map[string]map[string]string{}}
}

func (s *MemoryStore) Get(service, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[service][user]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (s *MemoryStore) Set(service, user, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secrets[service] == nil {
		s.secrets[service] = map[string]string{}
	}
	s.secrets[service][user] = secret
	return nil
}

func (s *MemoryStore) Delete(service, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[service][user]; !ok {
		return ErrNotFound
	}
	delete(s.secrets[service], user)
	return nil
}
