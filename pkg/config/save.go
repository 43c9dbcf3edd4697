package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/clikit/internal/infra/confloader"
)

// Save writes the whole namespace, config_file_path included, to the user
// file. The file is replaced atomically; a failed Save leaves the previous
// content in place. Environment-sourced values are saved as the strings
// they were read as.
func (r *Resolver) Save() error {
	if err := r.save(); err != nil {
		r.logger.Error("failed to save configuration", "path", r.filePath, "error", err)
		return err
	}
	r.logger.Debug("configuration saved", "path", r.filePath)
	return nil
}

func (r *Resolver) save() error {
	out, err := confloader.Encode(r.data)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("config: chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.filePath); err != nil {
		return fmt.Errorf("config: replace %s: %w", r.filePath, err)
	}
	return nil
}
