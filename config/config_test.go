package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 20, cfg.Telegram.RatePerMinute)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "foodpick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  host: db.internal
  name: menus
store:
  driver: sqlite
redis:
  ttl: 30s
telegram:
  token: from-file
`), 0o600))

	t.Setenv("DB_HOST", "env-host")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.DB.Host, "environment overrides file")
	assert.Equal(t, "menus", cfg.DB.Database)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := defaults()
	cfg.Store.Driver = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "unknown store driver")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.host", envKey("DB_HOST"))
	assert.Equal(t, "store.sqlite_path", envKey("STORE_SQLITE_PATH"))
	assert.Equal(t, "telegram.rate_per_minute", envKey("TELEGRAM_RATE_PER_MINUTE"))
	assert.Equal(t, "auto_migrate", envKey("AUTO_MIGRATE"))
	assert.Equal(t, "path", envKey("PATH"))
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "h", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", c.DSN())
	c.SSLMode = ""
	assert.Equal(t, "postgres://u:p@h:1/d", c.DSN())
}

func TestDSNEscapesCredentials(t *testing.T) {
	c := DBConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app user",
		Password: "p@ss/w#rd:?%",
		Database: "foodpick",
		SSLMode:  "disable",
	}

	pc, err := pgxpool.ParseConfig(c.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.EqualValues(t, 5432, pc.ConnConfig.Port)
	assert.Equal(t, "app user", pc.ConnConfig.User)
	assert.Equal(t, "p@ss/w#rd:?%", pc.ConnConfig.Password)
	assert.Equal(t, "foodpick", pc.ConnConfig.Database)
	assert.Nil(t, pc.ConnConfig.TLSConfig)
}
