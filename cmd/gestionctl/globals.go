package main

import (
	"context"

	"github.com/jhoicas/gestion-prep/internal/bootstrap"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/pkg/config"
	"github.com/jhoicas/gestion-prep/pkg/logger"
)

// Globals flags comunes a todos los comandos.
type Globals struct {
	User     string `help:"Usuario registrado en el historial." default:"gestionctl" env:"GESTIONCTL_USER"`
	Role     string `help:"Rol con el que se ejecuta la operación." default:"admin" enum:"admin,magasinier,technicien"`
	LogLevel string `help:"Nivel de log." default:"warn" enum:"trace,debug,info,warn,error"`

	cfg *config.Config
	log *logger.Logger
}

func (g *Globals) actor() entity.Actor {
	return entity.Actor{UserID: g.User, Role: g.Role}
}

func (g *Globals) open(ctx context.Context, migrate bool) (*bootstrap.Services, func(), error) {
	return bootstrap.Open(ctx, g.cfg, g.log, migrate)
}
