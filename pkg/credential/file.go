package credential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrBadPassphrase is returned when a FileStore cannot be decrypted.
var ErrBadPassphrase = errors.New("credential: wrong passphrase or corrupted store")

const fileStoreVersion = 1

// fileDocument is the on-disk layout. Secrets are sealed individually with
// "service\x00user" as additional data, so entries cannot be swapped.
type fileDocument struct {
	Version int                          `json:"version"`
	Salt    []byte                       `json:"salt"`
	KDF     KDFParams                    `json:"kdf"`
	Entries map[string]map[string][]byte `json:"entries"`
}

// FileStore keeps credentials in a passphrase-encrypted JSON file.
type FileStore struct {
	path       string
	passphrase []byte
	params     KDFParams

	mu      sync.Mutex
	keySalt []byte
	sealer  *sealer
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithKDFParams sets the argon2id cost for newly created files.
func WithKDFParams(p KDFParams) FileStoreOption {
	return func(s *FileStore) {
		s.params = p
	}
}

// NewFileStore opens (lazily) the store at path.
func NewFileStore(path string, passphrase []byte, opts ...FileStoreOption) (*FileStore, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("credential: file store needs a passphrase")
	}
	s := &FileStore{
		path:       path,
		passphrase: append([]byte(nil), passphrase...),
		params:     DefaultKDFParams,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) Get(service, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	sealed, ok := doc.Entries[service][user]
	if !ok {
		return "", ErrNotFound
	}

	sl, err := s.sealerFor(doc)
	if err != nil {
		return "", err
	}
	plain, err := sl.open(sealed, aad(service, user))
	if err != nil {
		return "", ErrBadPassphrase
	}
	return string(plain), nil
}

func (s *FileStore) Set(service, user, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		if doc, err = s.newDocument(); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	sl, err := s.sealerFor(doc)
	if err != nil {
		return err
	}
	if err := s.verify(doc, sl); err != nil {
		return err
	}

	sealed, err := sl.seal([]byte(secret), aad(service, user))
	if err != nil {
		return fmt.Errorf("credential: seal: %w", err)
	}
	if doc.Entries[service] == nil {
		doc.Entries[service] = map[string][]byte{}
	}
	doc.Entries[service][user] = sealed
	return s.write(doc)
}

func (s *FileStore) Delete(service, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if _, ok := doc.Entries[service][user]; !ok {
		return ErrNotFound
	}
	delete(doc.Entries[service], user)
	if len(doc.Entries[service]) == 0 {
		delete(doc.Entries, service)
	}
	return s.write(doc)
}

// verify checks the passphrase against an existing entry so that a wrong
// passphrase cannot add entries nobody can read back.
func (s *FileStore) verify(doc *fileDocument, sl *sealer) error {
	for service, users := range doc.Entries {
		for user, sealed := range users {
			if _, err := sl.open(sealed, aad(service, user)); err != nil {
				return ErrBadPassphrase
			}
			return nil
		}
	}
	return nil
}

func (s *FileStore) newDocument() (*fileDocument, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("credential: salt: %w", err)
	}
	return &fileDocument{
		Version: fileStoreVersion,
		Salt:    salt,
		KDF:     s.params,
		Entries: map[string]map[string][]byte{},
	}, nil
}

// sealerFor derives the key for doc's salt, reusing the last derivation.
func (s *FileStore) sealerFor(doc *fileDocument) (*sealer, error) {
	if s.sealer != nil && bytes.Equal(s.keySalt, doc.Salt) {
		return s.sealer, nil
	}
	sl, err := newSealer(deriveKey(s.passphrase, doc.Salt, doc.KDF))
	if err != nil {
		return nil, fmt.Errorf("credential: cipher: %w", err)
	}
	s.sealer = sl
	s.keySalt = append([]byte(nil), doc.Salt...)
	return sl, nil
}

func (s *FileStore) read() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("credential: parse %s: %w", s.path, err)
	}
	if doc.Version != fileStoreVersion {
		return nil, fmt.Errorf("credential: %s: unsupported version %d", s.path, doc.Version)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]map[string][]byte{}
	}
	return &doc, nil
}

func (s *FileStore) write(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("credential: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credential: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("credential: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("credential: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credential: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("credential: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("credential: replace %s: %w", s.path, err)
	}
	return nil
}

func aad(service, user string) []byte {
	return []byte(service + "\x00" + user)
}
