package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every parameter of the application.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Ordering OrderingConfig `mapstructure:"ordering"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig selects the SQL backend. Driver "pgx" talks to Postgres,
// "ramsql" keeps everything in process memory for local runs.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

type RabbitMQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
	UseTLS   bool   `mapstructure:"use_tls"`
	Prefetch int    `mapstructure:"prefetch"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OrderingConfig struct {
	// ValidateItems rejects cart additions that are not on the menu.
	ValidateItems bool `mapstructure:"validate_items"`
	// TrackStepInterval paces the streamed status playback.
	TrackStepInterval time.Duration `mapstructure:"track_step_interval"`
	PublishTimeout    time.Duration `mapstructure:"publish_timeout"`
	// SessionTTL expires sessions idle for longer. Zero keeps them forever.
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type AuthConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "RESTAURANT"

// LoadConfig reads path (YAML) on top of the built-in defaults. Any key can be
// overridden from the environment, e.g. RESTAURANT_DATABASE_HOST. An empty
// path means defaults plus environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read configuration %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("couldn't decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "restaurant")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "restaurant")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("rabbitmq.use_tls", false)
	v.SetDefault("rabbitmq.prefetch", 10)

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)

	v.SetDefault("ordering.validate_items", true)
	v.SetDefault("ordering.track_step_interval", 2*time.Second)
	v.SetDefault("ordering.publish_timeout", 5*time.Second)
	v.SetDefault("ordering.session_ttl", 30*time.Minute)
	v.SetDefault("ordering.sweep_interval", time.Minute)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("log.level", "info")
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "pgx":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
			errs = append(errs, errors.New("database config incomplete: host, user and database are required"))
		}
	case "ramsql":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.Host == "" || c.RabbitMQ.User == "") {
		errs = append(errs, errors.New("rabbitmq config incomplete: host and user are required"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.HTTP.Port))
	}
	if c.Ordering.TrackStepInterval < 0 {
		errs = append(errs, errors.New("ordering.track_step_interval must not be negative"))
	}
	if c.Ordering.SessionTTL < 0 {
		errs = append(errs, errors.New("ordering.session_ttl must not be negative"))
	}
	if c.Ordering.SessionTTL > 0 && c.Ordering.SweepInterval <= 0 {
		errs = append(errs, errors.New("ordering.sweep_interval must be positive when session_ttl is set"))
	}
	return errors.Join(errs...)
}
