package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/cli"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

func main() {
	var root cli.CLI
	g := cli.NewGlobal()

	ctx := kong.Parse(&root,
		kong.Name("sitegen"),
		kong.Description("Convert a directory of markdown pages into a static HTML site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(g, &root),
	)

	err := ctx.Run()
	ferrors.NewCLIErrorAdapter(root.Verbose, g.Logger).HandleError(err)
}
