package updatecheck

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/yndnr/clikit/pkg/logger"
)

// Source selects where the latest version is looked up.
type Source string

const (
	SourceProxy  Source = "proxy"
	SourceGitHub Source = "github"
)

// StateFileName is the cache file inside the data directory.
const StateFileName = "update.json"

// Options configures a Checker. Zero fields take the defaults below.
type Options struct {
	// Name is used in messages and for the data directory (default: the last
	// element of ModulePath).
	Name string
	// ModulePath is the Go module path, used by the proxy source and in the
	// install hint.
	ModulePath string
	// CurrentVersion is the running version (default v0.0.0).
	CurrentVersion string
	Source         Source
	// Repo is "owner/name" for the GitHub source.
	Repo     string
	Interval time.Duration
	// DataDir holds update.json (default <user config dir>/<Name>).
	DataDir   string
	ProxyURL  string
	GitHubURL string
	// Token authenticates GitHub API calls.
	Token string

	HTTPClient *http.Client
	Logger     logger.Logger
	// Observer is called with "ok", "error" or "cached" after each Check.
	Observer func(result string)
	now      func() time.Time
}

var defaultOptions = Options{
	CurrentVersion: "v0.0.0",
	Source:         SourceProxy,
	Interval:       time.Hour,
	ProxyURL:       "https://proxy.golang.org",
	HTTPClient:     &http.Client{Timeout: 5 * time.Second},
}

func (o *Options) applyDefaults() error {
	if err := mergo.Merge(o, defaultOptions); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.Name == "" && o.ModulePath != "" {
		o.Name = path.Base(o.ModulePath)
	}
	if o.Name == "" {
		return errors.New("updatecheck: Name or ModulePath is required")
	}

	o.Source = Source(strings.ToLower(string(o.Source)))
	if o.Source != SourceGitHub || o.Repo == "" {
		o.Source = SourceProxy
	}
	if o.Source == SourceProxy && o.ModulePath == "" {
		return errors.New("updatecheck: ModulePath is required for the proxy source")
	}
	return nil
}
