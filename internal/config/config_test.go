package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "rental"
password = "from-file"
dbname = "rental"

[razorpay]
key_id = "rzp_test_key"
key_secret = "secret"

[auth]
jwt_secret = "jwt"

[rental]
timezone = "UTC"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, 90, cfg.Rental.MaxRentalDays)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Contains(t, cfg.Database.DSN(), "dbname=rental")
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("RAZORPAY_KEY_SECRET", "env-secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Razorpay.KeySecret)
}

func TestLoad_ReportsEveryMissingField(t *testing.T) {
	_, err := Load(writeConfig(t, `
[rental]
timezone = "Mars/Olympus"
`))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "database.host")
	assert.Contains(t, msg, "razorpay.key_id")
	assert.Contains(t, msg, "auth.jwt_secret")
	assert.Contains(t, msg, "rental.timezone")
}
