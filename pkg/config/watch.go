package config

import (
	"context"

	"github.com/yndnr/clikit/internal/infra/confloader"
)

// Watch calls onChange each time the user file is written or recreated, until
// ctx is done. It does not reload; callers that want the new content call
// Reload from onChange, which runs on the goroutine that called Watch.
func (r *Resolver) Watch(ctx context.Context, onChange func(path string)) error {
	w, err := confloader.NewWatcher(r.filePath, confloader.WithWatcherLogger(r.logger))
	if err != nil {
		return err
	}
	w.OnChange(onChange)
	return w.Run(ctx)
}
