package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017/", cfg.Mongo.URI)
	assert.Equal(t, "hospital", cfg.Mongo.Database)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "clinic_audit_", cfg.Audit.Elasticsearch.IndexPrefix)
	assert.False(t, cfg.Appointments.StrictTransitions)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9000
store:
  driver: memory
appointments:
  strict_transitions: true
mongo:
  connect_timeout: 3s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Appointments.StrictTransitions)
	assert.Equal(t, 3*time.Second, cfg.Mongo.ConnectTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CLINIC_SERVER_PORT", "9191")
	t.Setenv("CLINIC_MONGO_DATABASE", "clinic_test")

	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "clinic_test", cfg.Mongo.Database)
	assert.Equal(t, "clinic_test", cfg.MongoConfig().Database)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "mongo ok", mutate: func(c *Config) {}},
		{name: "memory ok", mutate: func(c *Config) { c.Store.Driver = StoreMemory; c.Mongo.URI = "" }},
		{name: "mongo without uri", mutate: func(c *Config) { c.Mongo.URI = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: true},
		{name: "auth without secret", mutate: func(c *Config) { c.Auth.Enabled = true; c.Auth.PasswordHash = "x" }, wantErr: true},
		{name: "auth complete", mutate: func(c *Config) {
			c.Auth.Enabled = true
			c.Auth.PasswordHash = "x"
			c.Auth.JWTSecret = "secret"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Store.Driver = StoreMongo
			cfg.Mongo.URI = "mongodb://localhost:27017/"
			cfg.Mongo.Database = "hospital"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
