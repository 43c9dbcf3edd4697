package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the name of the user-layer file inside the module directory.
const FileName = "config.yaml"

// UserConfigRoot returns the per-user configuration root.
//
// On Windows this is os.UserConfigDir (%AppData%). Elsewhere it is
// $XDG_CONFIG_HOME when set to an absolute path and ~/.config otherwise, so
// that macOS users get the same dotfile location as Linux users.
func UserConfigRoot() (string, error) {
	if runtime.GOOS == "windows" {
		return os.UserConfigDir()
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	if home == "" {
		return "", errors.New("locate home directory: empty path")
	}
	return filepath.Join(home, ".config"), nil
}

// DefaultFilePath returns <root>/<module>/config.yaml for the current user.
func DefaultFilePath(moduleName string) (string, error) {
	root, err := UserConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, moduleName, FileName), nil
}
