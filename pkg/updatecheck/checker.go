package updatecheck

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/yndnr/clikit/pkg/config"
)

// Status is the outcome of a check.
type Status struct {
	Name            string     `json:"name" yaml:"name"`
	CurrentVersion  string     `json:"current_version" yaml:"current_version"`
	LatestVersion   string     `json:"latest_version" yaml:"latest_version"`
	UpdateAvailable bool       `json:"update_available" yaml:"update_available"`
	LastChecked     *time.Time `json:"last_checked" yaml:"last_checked"`
}

type state struct {
	LastCheck      *time.Time `json:"last_check"`
	LatestVersion  string     `json:"latest_version"`
	CurrentVersion string     `json:"current_version"`
}

// Checker compares the running version with the latest published one.
type Checker struct {
	opts      Options
	fetcher   fetcher
	stateFile string
	state     state
}

// New creates a checker and loads its cached state.
func New(ctx context.Context, opts Options) (*Checker, error) {
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}

	c := &Checker{opts: opts}
	if opts.Source == SourceGitHub {
		f, err := newGitHubFetcher(ctx, opts)
		if err != nil {
			return nil, err
		}
		c.fetcher = f
	} else {
		c.fetcher = newProxyFetcher(opts)
	}

	c.stateFile = filepath.Join(c.dataDir(), StateFileName)
	c.state = c.load()
	return c, nil
}

func (c *Checker) dataDir() string {
	dir := c.opts.DataDir
	if dir == "" {
		if root, err := config.UserConfigRoot(); err == nil {
			dir = filepath.Join(root, c.opts.Name)
		}
	}
	if dir != "" {
		err := os.MkdirAll(dir, 0o700)
		if err == nil {
			return dir
		}
		c.opts.Logger.Warn("could not create data directory", "dir", dir, "error", err)
	}

	dir = filepath.Join(os.TempDir(), c.opts.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		c.opts.Logger.Debug("could not create fallback data directory", "dir", dir, "error", err)
	}
	return dir
}

func (c *Checker) load() state {
	fresh := state{CurrentVersion: c.opts.CurrentVersion}

	data, err := os.ReadFile(c.stateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			c.opts.Logger.Debug("error loading update data", "file", c.stateFile, "error", err)
		}
		return fresh
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		c.opts.Logger.Debug("error loading update data", "file", c.stateFile, "error", err)
		return fresh
	}
	return s
}

func (c *Checker) save() {
	data, err := json.MarshalIndent(c.state, "", "    ")
	if err == nil {
		err = os.WriteFile(c.stateFile, append(data, '\n'), 0o600)
	}
	if err != nil {
		c.opts.Logger.Debug("error saving update data", "file", c.stateFile, "error", err)
	}
}

// StateFile returns the path of the cache file.
func (c *Checker) StateFile() string {
	return c.stateFile
}

// Check refreshes the latest version when force is set, when there is no
// cached check, or when the cached one is older than Interval. A failed
// lookup keeps the cached latest version, or the current one.
func (c *Checker) Check(ctx context.Context, force bool) Status {
	now := c.opts.now()
	last := c.state.LastCheck
	if !force && last != nil && now.Sub(*last) <= c.opts.Interval {
		c.observe("cached")
		return c.Status()
	}

	latest, err := c.fetcher.latest(ctx)
	if err != nil {
		c.opts.Logger.Debug("error checking for updates", "name", c.opts.Name, "error", err)
		c.observe("error")
		latest = c.state.LatestVersion
		if latest == "" {
			latest = c.opts.CurrentVersion
		}
	} else {
		c.observe("ok")
	}

	c.state = state{
		LastCheck:      &now,
		LatestVersion:  latest,
		CurrentVersion: c.opts.CurrentVersion,
	}
	c.save()
	return c.Status()
}

func (c *Checker) observe(result string) {
	if c.opts.Observer != nil {
		c.opts.Observer(result)
	}
}

// Status reports the cached state without any network access.
func (c *Checker) Status() Status {
	current := canonical(c.opts.CurrentVersion)
	latest := canonical(c.state.LatestVersion)
	return Status{
		Name:            c.opts.Name,
		CurrentVersion:  c.opts.CurrentVersion,
		LatestVersion:   c.state.LatestVersion,
		UpdateAvailable: semver.Compare(latest, current) > 0,
		LastChecked:     c.state.LastCheck,
	}
}

// NotifyIfUpdateAvailable logs an upgrade hint and reports whether an update
// exists. With quiet unset it also confirms an up-to-date version.
func (c *Checker) NotifyIfUpdateAvailable(quiet bool) bool {
	s := c.Status()
	l := c.opts.Logger
	if s.UpdateAvailable {
		l.Info("update available for " + s.Name)
		l.Info("  current version: " + s.CurrentVersion)
		l.Info("  latest version: " + s.LatestVersion)
		if c.opts.ModulePath != "" {
			l.Info("  update with: go install " + c.opts.ModulePath + "@latest")
		}
		return true
	}
	if !quiet {
		l.Info(s.Name + " is up to date (" + s.CurrentVersion + ")")
	}
	return false
}

// CheckForUpdates builds a checker, checks and optionally notifies.
func CheckForUpdates(ctx context.Context, opts Options, notify, force, quiet bool) (Status, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return Status{}, err
	}
	s := c.Check(ctx, force)
	if notify {
		c.NotifyIfUpdateAvailable(quiet)
	}
	return s, nil
}

// canonical turns "1.2.3" into "v1.2.3". Anything that is not a semantic
// version compares as v0.0.0.
func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "v0.0.0"
	}
	return v
}
