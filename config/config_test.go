package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("SOCIALGRAM_JWT_SECRET", "s3cret")
	t.Setenv("SOCIALGRAM_SERVER_PORT", "9090")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, DefaultSQLitePath, cfg.Database.SQLiteDSN())
}

func TestLoad_DriverFieldsWithoutDSN(t *testing.T) {
	t.Setenv("SOCIALGRAM_JWT_SECRET", "s3cret")
	t.Setenv("SOCIALGRAM_DATABASE_DRIVER", "mysql")
	t.Setenv("SOCIALGRAM_DATABASE_HOST", "mysql.internal")
	t.Setenv("SOCIALGRAM_DATABASE_PORT", "3306")
	t.Setenv("SOCIALGRAM_DATABASE_USER", "root")
	t.Setenv("SOCIALGRAM_DATABASE_PASSWORD", "pw")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(mysql.internal:3306)/socialgram?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.MySQLDSN())
	assert.Equal(t, "host=mysql.internal user=root password=pw dbname=socialgram port=3306 sslmode=disable", cfg.Database.PostgresDSN())
}

func TestLoad_DSNFromEnv(t *testing.T) {
	t.Setenv("SOCIALGRAM_JWT_SECRET", "s3cret")
	t.Setenv("SOCIALGRAM_DATABASE_DSN", "/var/lib/socialgram/app.db")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/socialgram/app.db", cfg.Database.SQLiteDSN())
}

func TestDatabaseConfig_ExplicitDSNWins(t *testing.T) {
	c := DatabaseConfig{DSN: "file:test.db", Host: "db", Port: 5432}
	assert.Equal(t, "file:test.db", c.SQLiteDSN())
	assert.Equal(t, "file:test.db", c.PostgresDSN())
	assert.Equal(t, "file:test.db", c.MySQLDSN())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("jwt:\n  secret: filesecret\n  expire: 1h\ndatabase:\n  driver: postgres\n  host: db\n  port: 5433\n  user: u\n  password: p\n  dbname: d\n  sslmode: disable\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWT.Expire)
	assert.Equal(t, "host=db user=u password=p dbname=d port=5433 sslmode=disable", cfg.Database.PostgresDSN())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Secret: "x", Expire: time.Hour}, Database: DatabaseConfig{Driver: "oracle"}}
	require.Error(t, cfg.Validate())
}
