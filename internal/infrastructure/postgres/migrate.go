package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// versionTable es la tabla donde tern guarda la versión del esquema.
const versionTable = "schema_version"

// Migrate aplica con tern los scripts de migrations/ posteriores a la versión actual.
// Cada script corre en su propia transacción. Devuelve los nombres aplicados.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return nil, fmt.Errorf("new migrator: %w", err)
	}
	scripts, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations dir: %w", err)
	}
	if err := m.LoadMigrations(scripts); err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var applied []string
	m.OnStart = func(_ int32, name, direction, _ string) {
		if direction == "up" {
			applied = append(applied, name)
		}
	}
	if err := m.Migrate(ctx); err != nil {
		return appliedBefore(applied), fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}

// appliedBefore descarta la última migración iniciada, que es la que falló.
func appliedBefore(started []string) []string {
	if len(started) == 0 {
		return nil
	}
	return started[:len(started)-1]
}
