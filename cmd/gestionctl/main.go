package main

import (
	"github.com/alecthomas/kong"

	"github.com/jhoicas/gestion-prep/pkg/config"
	"github.com/jhoicas/gestion-prep/pkg/logger"
)

var cli struct {
	Globals
	Commands
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gestionctl"),
		kong.Description("Operaciones de mantenimiento sobre los Bons de Mouvement de Matériel."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	ctx.FatalIfErrorf(err)
	cli.Globals.cfg = cfg
	cli.Globals.log = logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cli.Globals.LogLevel,
		Output: ctx.Stderr,
	})

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
