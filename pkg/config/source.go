package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// DefaultSource locates the default layer for a module.
//
// Load returns the raw YAML document, or an error wrapping fs.ErrNotExist
// when the module ships no defaults.
type DefaultSource interface {
	Load(moduleName string) ([]byte, error)
}

// DefaultSourceFunc adapts a function to DefaultSource.
type DefaultSourceFunc func(moduleName string) ([]byte, error)

// Load calls f(moduleName).
func (f DefaultSourceFunc) Load(moduleName string) ([]byte, error) {
	return f(moduleName)
}

type fsSource struct {
	fsys fs.FS
	dir  string
}

// FSSource reads config/<module>.yaml from fsys, typically an embed.FS.
func FSSource(fsys fs.FS) DefaultSource {
	return fsSource{fsys: fsys, dir: "config"}
}

// FSSourceDir is FSSource with a directory other than "config".
func FSSourceDir(fsys fs.FS, dir string) DefaultSource {
	return fsSource{fsys: fsys, dir: dir}
}

func (s fsSource) Load(moduleName string) ([]byte, error) {
	name := path.Join(s.dir, moduleName+".yaml")
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read defaults %s: %w", name, err)
	}
	return data, nil
}

// BytesSource serves the same document for every module.
func BytesSource(data []byte) DefaultSource {
	return DefaultSourceFunc(func(string) ([]byte, error) {
		return data, nil
	})
}

// noDefaults is used when no DefaultSource is configured.
var noDefaults DefaultSource = DefaultSourceFunc(func(moduleName string) ([]byte, error) {
	return nil, fmt.Errorf("defaults for %s: %w", moduleName, fs.ErrNotExist)
})

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
