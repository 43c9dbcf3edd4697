package command

import (
	"context"
	"embed"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/internal/infra/buildinfo"
	"github.com/yndnr/clikit/internal/infra/shutdown"
	"github.com/yndnr/clikit/internal/telemetry/metric"
	"github.com/yndnr/clikit/pkg/command"
	"github.com/yndnr/clikit/pkg/config"
	"github.com/yndnr/clikit/pkg/config/schema"
	"github.com/yndnr/clikit/pkg/credential"
	"github.com/yndnr/clikit/pkg/logger"
)

// AppName is the module name used for configuration and credentials.
const AppName = "clikit"

// Metadata keys on cli.App.
const (
	metaResolver = "resolver"
	metaMetrics  = "metrics"
	metaRuntime  = "runtime"
)

//go:embed config/clikit.yaml config/clikit.schema.json
var assets embed.FS

const schemaFile = "config/" + AppName + ".schema.json"

// runtime holds collaborators that tests replace.
type runtime struct {
	shutdown *shutdown.Handler
	store    credential.Store
	prompter credential.Prompter
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	// nested is set inside "clikit shell".
	nested bool

	// metrics is created in Before.
	metrics *metric.Registry
}

// Option configures App.
type Option func(*runtime)

// WithShutdown sets the handler whose hooks run in After.
func WithShutdown(h *shutdown.Handler) Option {
	return func(rt *runtime) {
		rt.shutdown = h
	}
}

// WithCredentialStore replaces the store configured by credential.backend.
func WithCredentialStore(s credential.Store) Option {
	return func(rt *runtime) {
		rt.store = s
	}
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(p credential.Prompter) Option {
	return func(rt *runtime) {
		rt.prompter = p
	}
}

// WithWriters redirects command output and diagnostics.
func WithWriters(stdout, stderr io.Writer) Option {
	return func(rt *runtime) {
		rt.stdout = stdout
		rt.stderr = stderr
	}
}

// App creates the CLI application.
func App(opts ...Option) *cli.App {
	rt := &runtime{
		shutdown: shutdown.NewHandler(5 * time.Second),
		prompter: credential.NewTerminalPrompter(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	app := command.NewApp(AppName, "Command-line toolkit demo: configuration, credentials and update checks",
		configCommand(rt),
		credentialCommand(rt),
		updateCommand(rt),
		command.ToCLI(versionCmd{}, command.WithObserver(rt.observe(""))),
		command.ToCLI(shellCmd{rt}, command.WithObserver(rt.observe(""))),
	)
	app.Version = buildinfo.Get().String()
	app.Flags = globalFlags()
	app.Metadata[metaRuntime] = rt
	if rt.stdout != nil {
		app.Writer = rt.stdout
	}
	if rt.stderr != nil {
		app.ErrWriter = rt.stderr
	}
	app.Before = before
	app.After = after
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "Configuration root (default: $XDG_CONFIG_HOME or ~/.config)",
			EnvVars: []string{"CLIKIT_CONFIG_DIR"},
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write Prometheus metrics to `FILE` on exit",
			EnvVars: []string{"CLIKIT_METRICS_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml (default: output.format)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

func before(c *cli.Context) error {
	rt := runtimeFrom(c)

	logCfg, err := logger.ConfigFromEnv("CLIKIT_")
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logCfg.Output = c.App.ErrWriter
	log := logger.New(logCfg)
	logger.SetDefault(log)
	c.Context = logger.WithLogger(c.Context, log)

	opts := []config.Option{
		config.WithDefaults(config.FSSource(assets)),
		config.WithSchemaValidator(schema.New()),
		config.WithLogger(log.With("logger", "config")),
		config.WithoutEnv(flagEnvVars(c.App.Flags)...),
	}
	if dir := c.String("config-dir"); dir != "" {
		opts = append(opts, config.WithConfigDir(dir))
	}
	r, err := config.New(AppName, opts...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load configuration: %v", err), 1)
	}
	c.App.Metadata[metaResolver] = r

	if lvl := r.GetString("log.level", ""); lvl != "" && !c.Bool("verbose") {
		logger.SetLevel(lvl)
	}
	if !c.IsSet("output") {
		if err := c.Set("output", r.GetString("output.format", "table")); err != nil {
			return err
		}
	}

	reg := metric.NewRegistry()
	rt.metrics = reg
	c.App.Metadata[metaMetrics] = reg
	if path := c.String("metrics-file"); path != "" {
		rt.shutdown.OnShutdown(func(context.Context) error {
			return reg.WriteTextfile(path)
		})
	}
	return nil
}

// flagEnvVars lists the variables bound to flags. They share the CLIKIT_
// prefix but are not configuration keys.
func flagEnvVars(flags []cli.Flag) []string {
	var names []string
	for _, f := range flags {
		if ef, ok := f.(interface{ GetEnvVars() []string }); ok {
			names = append(names, ef.GetEnvVars()...)
		}
	}
	return names
}

func after(c *cli.Context) error {
	if err := runtimeFrom(c).shutdown.Shutdown(); err != nil {
		logger.FromContext(c.Context).Warn("cleanup failed", "error", err)
	}
	return nil
}

func runtimeFrom(c *cli.Context) *runtime {
	return c.App.Metadata[metaRuntime].(*runtime)
}

func resolverFrom(c *cli.Context) *config.Resolver {
	r, _ := c.App.Metadata[metaResolver].(*config.Resolver)
	return r
}

func metricsFrom(c *cli.Context) *metric.Registry {
	reg, _ := c.App.Metadata[metaMetrics].(*metric.Registry)
	return reg
}

// observe records command metrics under "<group> <name>".
func (rt *runtime) observe(group string) command.Observer {
	return func(name string, elapsed time.Duration, err error) {
		if rt.metrics == nil {
			return
		}
		if group != "" {
			name = group + " " + name
		}
		rt.metrics.ObserveCommand(name, elapsed, err)
	}
}
