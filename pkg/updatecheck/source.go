package updatecheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-github/v57/github"
	"golang.org/x/mod/module"
	"golang.org/x/oauth2"
)

type fetcher interface {
	latest(ctx context.Context) (string, error)
}

// proxyFetcher asks a GOPROXY for <module>/@latest.
type proxyFetcher struct {
	client     *resty.Client
	modulePath string
}

type proxyInfo struct {
	Version string `json:"Version"`
}

func newProxyFetcher(opts Options) *proxyFetcher {
	client := resty.NewWithClient(opts.HTTPClient).
		SetBaseURL(strings.TrimRight(opts.ProxyURL, "/")).
		SetHeader("Accept", "application/json")
	return &proxyFetcher{client: client, modulePath: opts.ModulePath}
}

func (f *proxyFetcher) latest(ctx context.Context) (string, error) {
	escaped, err := module.EscapePath(f.modulePath)
	if err != nil {
		return "", fmt.Errorf("escape module path: %w", err)
	}

	var info proxyInfo
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/" + escaped + "/@latest")
	if err != nil {
		return "", fmt.Errorf("query module proxy: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("query module proxy: %s", resp.Status())
	}
	if info.Version == "" {
		return "", fmt.Errorf("module proxy returned no version")
	}
	return info.Version, nil
}

// githubFetcher reads the tag of the latest release.
type githubFetcher struct {
	client      *github.Client
	owner, repo string
}

func newGitHubFetcher(ctx context.Context, opts Options) (*githubFetcher, error) {
	owner, repo, ok := strings.Cut(opts.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("updatecheck: repo %q is not owner/name", opts.Repo)
	}

	httpClient := opts.HTTPClient
	if opts.Token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)

	if opts.GitHubURL != "" {
		base, err := url.Parse(strings.TrimRight(opts.GitHubURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("updatecheck: github url: %w", err)
		}
		client.BaseURL = base
	}
	return &githubFetcher{client: client, owner: owner, repo: repo}, nil
}

func (f *githubFetcher) latest(ctx context.Context) (string, error) {
	release, resp, err := f.client.Repositories.GetLatestRelease(ctx, f.owner, f.repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("no releases for %s/%s", f.owner, f.repo)
		}
		return "", fmt.Errorf("query github: %w", err)
	}
	tag := release.GetTagName()
	if tag == "" {
		return "", fmt.Errorf("latest release of %s/%s has no tag", f.owner, f.repo)
	}
	return tag, nil
}
