package command

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/clikit/internal/infra/buildinfo"
	"github.com/yndnr/clikit/internal/infra/tlsroots"
	"github.com/yndnr/clikit/pkg/command"
	"github.com/yndnr/clikit/pkg/logger"
	"github.com/yndnr/clikit/pkg/output"
	"github.com/yndnr/clikit/pkg/updatecheck"
)

const updateTimeout = 5 * time.Second

// updateCommand returns the update subcommand group.
func updateCommand(rt *runtime) *cli.Command {
	return command.Group("update", "Check for newer clikit releases",
		command.ToCLI(updateCheck{rt}, command.WithObserver(rt.observe("update"))),
	)
}

type updateCheck struct{ rt *runtime }

func (updateCheck) Name() string  { return "check" }
func (updateCheck) Usage() string { return "Compare this build with the latest release" }

func (updateCheck) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Ignore the cached result"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log when an update is available"},
	}
}

func (u updateCheck) options(c *cli.Context) (updatecheck.Options, error) {
	r := resolverFrom(c)
	log := logger.FromContext(c.Context)

	interval, err := time.ParseDuration(r.GetString("update.interval", "1h"))
	if err != nil {
		return updatecheck.Options{}, usageError("Invalid update.interval: %v", err)
	}

	client := &http.Client{Timeout: updateTimeout}
	if caFile := r.GetString("update.cafile", ""); caFile != "" {
		pool := tlsroots.NewPool()
		if err := pool.AddPath(caFile); err != nil {
			return updatecheck.Options{}, command.Errorf("Failed to load update.cafile: %v", err)
		}
		client = pool.HTTPClient(updateTimeout)
	}

	opts := updatecheck.Options{
		Name:           AppName,
		ModulePath:     buildinfo.ModulePath,
		CurrentVersion: buildinfo.Get().Version,
		Source:         updatecheck.Source(r.GetString("update.source", "")),
		Repo:           r.GetString("update.repo", ""),
		Interval:       interval,
		DataDir:        filepath.Dir(r.FilePath()),
		ProxyURL:       r.GetString("update.proxy", ""),
		GitHubURL:      r.GetString("update.api", ""),
		Token:          os.Getenv("GITHUB_TOKEN"),
		HTTPClient:     client,
		Logger:         log,
	}
	if reg := metricsFrom(c); reg != nil {
		opts.Observer = reg.ObserveUpdateCheck
	}
	return opts, nil
}

func (u updateCheck) Execute(c *cli.Context) (any, error) {
	opts, err := u.options(c)
	if err != nil {
		return nil, err
	}

	checker, err := updatecheck.New(c.Context, opts)
	if err != nil {
		return nil, command.Errorf("Update check failed: %v", err)
	}

	stop := func() {}
	if f, ok := c.App.ErrWriter.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		sp := output.NewSpinner(f, "Checking for updates")
		sp.Start()
		stop = sp.Stop
	}
	status := checker.Check(c.Context, c.Bool("force"))
	stop()

	checker.NotifyIfUpdateAvailable(c.Bool("quiet"))
	return status, nil
}
