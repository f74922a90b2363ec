package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Viper ignora las variables vacías: cuentan como no definidas.
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("BMM_PREFIX", "")
	t.Setenv("DB_LOCK_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "BMM", cfg.BMM.Prefix)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("BMM_PREFIX", "BON")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "BON", cfg.BMM.Prefix)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoad_LockTimeoutMilliseconds(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("BMM_PREFIX", "BMM")
	t.Setenv("DB_LOCK_TIMEOUT", "2000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.DB.LockTimeout)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("BMM_PREFIX", "BMM")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "prep", Password: "p@ss/word", DBName: "gp", SSLMode: "disable"}
	assert.Equal(t, "postgres://prep:p%40ss%2Fword@db:5432/gp?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
