package command

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/clikit/pkg/command"
	"github.com/yndnr/clikit/pkg/config"
	"github.com/yndnr/clikit/pkg/logger"
	"github.com/yndnr/clikit/pkg/model"
	"github.com/yndnr/clikit/pkg/output"
)

// configCommand returns the config subcommand group.
func configCommand(rt *runtime) *cli.Command {
	obs := command.WithObserver(rt.observe("config"))
	kv := command.WithTableOptions(output.TableOptions{
		Headers: map[string]string{"key": "KEY", "value": "VALUE"},
	})
	return command.Group("config", "Inspect and edit the clikit configuration",
		command.ToCLI(configShow{}, obs, kv),
		command.ToCLI(configGet{}, obs, kv, command.WithArgsUsage("KEY")),
		command.ToCLI(configSet{}, obs, kv, command.WithArgsUsage("KEY VALUE")),
		command.ToCLI(configUnset{}, obs, command.WithArgsUsage("KEY"), command.WithAliases("delete")),
		command.ToCLI(configPath{}, obs),
		command.ToCLI(configValidate{}, obs),
		command.ToCLI(configReset{}, obs, kv),
	)
}

func usageError(format string, args ...any) error {
	return command.Errorf(format, args...).WithExitCode(2)
}

func exactArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return usageError("Usage: %s %s", c.Command.HelpName, usage)
	}
	return nil
}

func save(r *config.Resolver) error {
	if err := r.Save(); err != nil {
		return command.Errorf("Failed to save configuration: %v", err)
	}
	return nil
}

// settingsModels flattens the namespace into one key/value row per leaf.
func settingsModels(all map[string]any) []*model.Model {
	flat, _ := maps.Flatten(all, nil, ".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]*model.Model, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, keyValue(k, flat[k]))
	}
	return rows
}

func keyValue(key string, value any) *model.Model {
	m := model.New(nil)
	m.Set("key", key)
	m.Set("value", value)
	return m
}

type configShow struct{}

func (configShow) Name() string  { return "show" }
func (configShow) Usage() string { return "Show the resolved configuration" }

func (configShow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Print again whenever the configuration file changes",
		},
	}
}

func (configShow) Execute(c *cli.Context) (any, error) {
	r := resolverFrom(c)
	format, err := command.OutputFormat(c)
	if err != nil {
		return nil, err
	}

	render := func() any {
		if format == output.FormatTable {
			return settingsModels(r.All())
		}
		return model.New(r.All())
	}
	if !c.Bool("watch") {
		return render(), nil
	}

	log := logger.FromContext(c.Context)
	p := output.NewPrinter(c.App.Writer, format, output.WithPrinterLogger(log))
	if err := p.Print(render()); err != nil {
		return nil, err
	}
	err = r.Watch(c.Context, func(path string) {
		if err := r.Reload(); err != nil {
			log.Warn("reload failed", "file", path, "error", err)
			return
		}
		fmt.Fprintln(c.App.Writer)
		if err := p.Print(render()); err != nil {
			log.Warn("print failed", "error", err)
		}
	})
	if err != nil {
		return nil, command.Errorf("Failed to watch %s: %v", r.FilePath(), err)
	}
	return nil, nil
}

type configGet struct{}

func (configGet) Name() string      { return "get" }
func (configGet) Usage() string     { return "Print one value" }
func (configGet) Flags() []cli.Flag { return nil }

func (configGet) ValidateArgs(c *cli.Context) error {
	return exactArgs(c, 1, "KEY")
}

func (configGet) Execute(c *cli.Context) (any, error) {
	key := c.Args().First()
	v, ok := resolverFrom(c).Lookup(key)
	if !ok {
		return nil, command.Errorf("Key not found: %s", key)
	}
	return keyValue(key, v), nil
}

type configSet struct{}

func (configSet) Name() string  { return "set" }
func (configSet) Usage() string { return "Set a value and save the user file" }

func (configSet) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "string",
			Usage: "Store VALUE as a string instead of parsing it as YAML",
		},
	}
}

func (configSet) ValidateArgs(c *cli.Context) error {
	if err := exactArgs(c, 2, "KEY VALUE"); err != nil {
		return err
	}
	if c.Args().First() == config.FilePathKey {
		return usageError("%s is read-only", config.FilePathKey)
	}
	return nil
}

func (configSet) Execute(c *cli.Context) (any, error) {
	key, raw := c.Args().Get(0), c.Args().Get(1)
	value := parseValue(raw, c.Bool("string"))

	r := resolverFrom(c)
	r.Set(key, value)
	if err := save(r); err != nil {
		return nil, err
	}
	return keyValue(key, value), nil
}

// parseValue reads raw as a YAML scalar or flow collection, so "3" is an
// int and "[a, b]" a list. Unparsable input stays a string.
func parseValue(raw string, asString bool) any {
	if asString || strings.TrimSpace(raw) == "" {
		return raw
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return v
}

type configUnset struct{}

func (configUnset) Name() string      { return "unset" }
func (configUnset) Usage() string     { return "Remove a value and save the user file" }
func (configUnset) Flags() []cli.Flag { return nil }

func (configUnset) ValidateArgs(c *cli.Context) error {
	if err := exactArgs(c, 1, "KEY"); err != nil {
		return err
	}
	if c.Args().First() == config.FilePathKey {
		return usageError("%s is read-only", config.FilePathKey)
	}
	return nil
}

func (configUnset) Execute(c *cli.Context) (any, error) {
	key := c.Args().First()
	r := resolverFrom(c)
	if !r.Delete(key) {
		return nil, command.Errorf("Key not found: %s", key)
	}
	if err := save(r); err != nil {
		return nil, err
	}
	return nil, nil
}

type configPath struct{}

func (configPath) Name() string      { return "path" }
func (configPath) Usage() string     { return "Print the location of the user file" }
func (configPath) Flags() []cli.Flag { return nil }

func (configPath) Execute(c *cli.Context) (any, error) {
	return model.New(map[string]any{"path": resolverFrom(c).FilePath()}), nil
}

type configValidate struct{}

func (configValidate) Name() string  { return "validate" }
func (configValidate) Usage() string { return "Check the configuration against a JSON Schema" }

func (configValidate) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "schema",
			Usage:     "Schema `FILE` (default: the built-in clikit schema)",
			TakesFile: true,
		},
	}
}

func (configValidate) Execute(c *cli.Context) (any, error) {
	var doc []byte
	var err error
	if path := c.String("schema"); path != "" {
		doc, err = os.ReadFile(path)
	} else {
		doc, err = assets.ReadFile(schemaFile)
	}
	if err != nil {
		return nil, command.Errorf("Failed to read schema: %v", err)
	}

	r := resolverFrom(c)
	res := r.ValidateSchema(doc)
	if !res.Valid {
		return nil, command.Errorf("Configuration is invalid:\n  - %s", strings.Join(res.Violations, "\n  - "))
	}
	return model.New(map[string]any{
		"file":    r.FilePath(),
		"valid":   res.Valid,
		"skipped": res.Skipped,
	}), nil
}

type configReset struct{}

func (configReset) Name() string  { return "reset" }
func (configReset) Usage() string { return "Replace the user file with the built-in defaults" }

func (configReset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Confirm that local changes are discarded",
		},
	}
}

func (configReset) ValidateArgs(c *cli.Context) error {
	if !c.Bool("force") {
		return usageError("Refusing to reset without --force")
	}
	return nil
}

func (configReset) Execute(c *cli.Context) (any, error) {
	r := resolverFrom(c)
	if err := os.Remove(r.FilePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, command.Errorf("Failed to remove %s: %v", r.FilePath(), err)
	}
	if err := r.Reload(); err != nil {
		return nil, command.Errorf("Failed to restore defaults: %v", err)
	}
	return settingsModels(r.All()), nil
}
