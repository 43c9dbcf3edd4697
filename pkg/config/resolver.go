package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/maps"

	"github.com/yndnr/clikit/internal/infra/confloader"
	"github.com/yndnr/clikit/pkg/logger"
)

// FilePathKey is the reserved key holding the user-layer file path.
const FilePathKey = "config_file_path"

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// ErrEmptyModuleName is returned by New when the module name is empty.
var ErrEmptyModuleName = errors.New("config: module name is required")

// Resolver is the merged view of the default, user and environment layers.
type Resolver struct {
	moduleName string
	envPrefix  string
	envSkip    []string
	configDir  string
	filePath   string

	defaults  DefaultSource
	validator SchemaValidator
	logger    logger.Logger

	data map[string]any
}

// New loads the configuration for moduleName.
//
// When the user file does not exist it is created with the default layer's
// content. Malformed layers are logged and skipped; only failing to create
// the user file or its directory is an error.
func New(moduleName string, opts ...Option) (*Resolver, error) {
	if moduleName == "" {
		return nil, ErrEmptyModuleName
	}

	r := &Resolver{
		moduleName: moduleName,
		envPrefix:  confloader.NormalizePrefix(moduleName),
		defaults:   noDefaults,
		logger:     logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("module", moduleName)

	if err := r.resolvePath(); err != nil {
		return nil, err
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) resolvePath() error {
	var (
		p   string
		err error
	)
	switch {
	case r.filePath != "":
		p = r.filePath
	case r.configDir != "":
		p = filepath.Join(r.configDir, r.moduleName, FileName)
	default:
		p, err = DefaultFilePath(r.moduleName)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", p, err)
	}
	r.filePath = abs
	return nil
}

// load rebuilds the namespace from disk and the environment.
func (r *Resolver) load() error {
	raw, defaults := r.loadDefaults()

	if err := os.MkdirAll(filepath.Dir(r.filePath), dirPerm); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data := maps.Copy(defaults)

	_, statErr := os.Stat(r.filePath)
	switch {
	case os.IsNotExist(statErr):
		if err := r.bootstrap(raw, defaults); err != nil {
			return err
		}
	default:
		user, err := confloader.DecodeFile(r.filePath)
		if err != nil {
			r.logger.Warn("ignoring unreadable configuration file",
				"path", r.filePath,
				"error", err,
			)
			break
		}
		// Top-level keys from the user file replace the default ones
		// wholesale, so keys removed from a user namespace stay removed.
		for k, v := range user {
			data[k] = v
		}
	}

	data[FilePathKey] = r.filePath
	r.data = data
	r.ApplyEnvironmentOverrides()

	r.logger.Debug("configuration loaded", "path", r.filePath, "keys", len(r.data))
	return nil
}

// loadDefaults returns the raw default document and its parsed namespace.
// raw is nil when there is no usable default layer.
func (r *Resolver) loadDefaults() ([]byte, map[string]any) {
	raw, err := r.defaults.Load(r.moduleName)
	if err != nil {
		if !isNotExist(err) {
			r.logger.Warn("ignoring unreadable default configuration", "error", err)
		}
		return nil, map[string]any{}
	}

	mp, err := confloader.Decode(raw)
	if err != nil {
		r.logger.Warn("ignoring malformed default configuration", "error", err)
		return nil, map[string]any{}
	}
	if len(mp) == 0 {
		return nil, mp
	}
	return raw, mp
}

// bootstrap writes the first-run user file.
func (r *Resolver) bootstrap(raw []byte, defaults map[string]any) error {
	if raw == nil {
		var err error
		if raw, err = confloader.Encode(defaults); err != nil {
			return fmt.Errorf("config: encode defaults: %w", err)
		}
	}
	if err := os.WriteFile(r.filePath, raw, filePerm); err != nil {
		return fmt.Errorf("config: create %s: %w", r.filePath, err)
	}
	r.logger.Info("created configuration file", "path", r.filePath)
	return nil
}

// Reload discards in-memory changes and reads every layer again, including
// the environment.
func (r *Resolver) Reload() error {
	return r.load()
}

// ModuleName returns the module name the resolver was created with.
func (r *Resolver) ModuleName() string {
	return r.moduleName
}

// EnvPrefix returns the environment prefix, without the trailing "_".
func (r *Resolver) EnvPrefix() string {
	return r.envPrefix
}

// FilePath returns the absolute path of the user-layer file.
func (r *Resolver) FilePath() string {
	return r.filePath
}
