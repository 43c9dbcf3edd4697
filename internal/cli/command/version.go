package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/clikit/internal/infra/buildinfo"
)

type versionCmd struct{}

func (versionCmd) Name() string      { return "version" }
func (versionCmd) Usage() string     { return "Show build information" }
func (versionCmd) Flags() []cli.Flag { return nil }

func (versionCmd) Execute(*cli.Context) (any, error) {
	return buildinfo.Get(), nil
}
