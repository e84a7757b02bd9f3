package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mesikahq/clinic-desk/internal/database"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Server struct {
		Host    string        `mapstructure:"host"`
		Port    int           `mapstructure:"port"`
		Mode    string        `mapstructure:"mode"`
		Timeout time.Duration `mapstructure:"timeout"`
		TLS     struct {
			Enabled  bool   `mapstructure:"enabled"`
			CertFile string `mapstructure:"cert_file"`
			KeyFile  string `mapstructure:"key_file"`
		} `mapstructure:"tls"`
		RateLimit struct {
			RPS   float64 `mapstructure:"rps"`
			Burst int     `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"server"`

	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`

	Mongo struct {
		URI                    string        `mapstructure:"uri"`
		Database               string        `mapstructure:"database"`
		MaxPoolSize            uint64        `mapstructure:"max_pool_size"`
		MinPoolSize            uint64        `mapstructure:"min_pool_size"`
		MaxConnecting          uint64        `mapstructure:"max_connecting"`
		ConnectTimeout         time.Duration `mapstructure:"connect_timeout"`
		HeartbeatInterval      time.Duration `mapstructure:"heartbeat_interval"`
		ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
		TLS                    struct {
			Enabled  bool   `mapstructure:"enabled"`
			CAFile   string `mapstructure:"ca_file"`
			CertFile string `mapstructure:"cert_file"`
			KeyFile  string `mapstructure:"key_file"`
		} `mapstructure:"tls"`
	} `mapstructure:"mongo"`

	Auth struct {
		Enabled      bool          `mapstructure:"enabled"`
		Username     string        `mapstructure:"username"`
		PasswordHash string        `mapstructure:"password_hash"`
		JWTSecret    string        `mapstructure:"jwt_secret"`
		TokenExpiry  time.Duration `mapstructure:"token_expiry"`
	} `mapstructure:"auth"`

	Audit struct {
		Elasticsearch struct {
			Addresses   []string `mapstructure:"addresses"`
			Username    string   `mapstructure:"username"`
			Password    string   `mapstructure:"password"`
			IndexPrefix string   `mapstructure:"index_prefix"`
		} `mapstructure:"elasticsearch"`
	} `mapstructure:"audit"`

	Appointments struct {
		StrictTransitions bool `mapstructure:"strict_transitions"`
	} `mapstructure:"appointments"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Search locations for config.yaml, in order.
var configPaths = []string{
	"./configs",
	"../configs",
	"/etc/clinic-desk",
}

// Load reads config.yaml from the first location that has one and applies
// CLINIC_* environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(viper.New(), configPaths...)
}

func LoadFrom(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("clinic")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.rate_limit.rps", 30)
	v.SetDefault("server.rate_limit.burst", 60)

	v.SetDefault("store.driver", StoreMongo)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "hospital")
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.min_pool_size", 1)
	v.SetDefault("mongo.max_connecting", 2)
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("mongo.heartbeat_interval", 10*time.Second)
	v.SetDefault("mongo.server_selection_timeout", 5*time.Second)
	v.SetDefault("mongo.tls.enabled", false)
	v.SetDefault("mongo.tls.ca_file", "")
	v.SetDefault("mongo.tls.cert_file", "")
	v.SetDefault("mongo.tls.key_file", "")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.username", "frontdesk")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiry", 12*time.Hour)

	v.SetDefault("audit.elasticsearch.addresses", []string{})
	v.SetDefault("audit.elasticsearch.username", "")
	v.SetDefault("audit.elasticsearch.password", "")
	v.SetDefault("audit.elasticsearch.index_prefix", "clinic_audit_")

	v.SetDefault("appointments.strict_transitions", false)

	v.SetDefault("log.level", "info")
}

// Validate checks the settings the services cannot run without.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("mongo.uri and mongo.database are required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Auth.Enabled && (c.Auth.JWTSecret == "" || c.Auth.PasswordHash == "") {
		return errors.New("auth.jwt_secret and auth.password_hash are required when auth is enabled")
	}
	return nil
}

// MongoConfig maps the mongo section onto the connection settings.
func (c *Config) MongoConfig() *database.Config {
	return &database.Config{
		URI:                    c.Mongo.URI,
		Database:               c.Mongo.Database,
		MaxPoolSize:            c.Mongo.MaxPoolSize,
		MinPoolSize:            c.Mongo.MinPoolSize,
		MaxConnecting:          c.Mongo.MaxConnecting,
		ConnectTimeout:         c.Mongo.ConnectTimeout,
		HeartbeatInterval:      c.Mongo.HeartbeatInterval,
		ServerSelectionTimeout: c.Mongo.ServerSelectionTimeout,
		TLSEnabled:             c.Mongo.TLS.Enabled,
		TLSCAFile:              c.Mongo.TLS.CAFile,
		TLSCertFile:            c.Mongo.TLS.CertFile,
		TLSKeyFile:             c.Mongo.TLS.KeyFile,
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
