package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`   // 0.0.0.0
		HTTPPort string `mapstructure:"http_port"` // 8080
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql" | "sqlite"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // file path/prefix, empty means stdout only
	} `mapstructure:"logs"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	QR struct {
		BasePath    string `mapstructure:"base_path"`
		FrontendURL string `mapstructure:"frontend_url"`
	} `mapstructure:"qr"`

	WhatsApp struct {
		APIURL        string `mapstructure:"api_url"`
		PhoneNumberID string `mapstructure:"phone_number_id"`
		AccessToken   string `mapstructure:"access_token"`
		TemplateName  string `mapstructure:"template_name"`
	} `mapstructure:"whatsapp"`

	RateLimit struct {
		PerMinute int           `mapstructure:"per_minute"`
		CacheSize int           `mapstructure:"cache_size"`
		CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"ratelimit"`

	Admin struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Email    string `mapstructure:"email"`
	} `mapstructure:"admin"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

// Load reads configuration from env and an optional yaml file, with
// defaults.
func Load() (*Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.http_port", "8080")

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.dsn", "")

	viper.SetDefault("logs.level", "info")
	viper.SetDefault("logs.format", "text")
	viper.SetDefault("logs.file", "")

	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", 7*24*time.Hour)

	viper.SetDefault("qr.base_path", "qr-codes")
	viper.SetDefault("qr.frontend_url", "http://localhost:3000")

	viper.SetDefault("whatsapp.api_url", "https://graph.facebook.com/v18.0")
	viper.SetDefault("whatsapp.phone_number_id", "")
	viper.SetDefault("whatsapp.access_token", "")
	viper.SetDefault("whatsapp.template_name", "order_completion")

	viper.SetDefault("ratelimit.per_minute", 100)
	viper.SetDefault("ratelimit.cache_size", 10000)
	viper.SetDefault("ratelimit.cache_ttl", 10*time.Minute)

	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password", "")
	viper.SetDefault("admin.email", "admin@localhost")

	viper.SetDefault("cors.allowed_origins", []string{"*"})

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			viper.AddConfigPath(filepath.Join(xdg, "atelier"))
		}
		viper.AddConfigPath("/etc/atelier")
	}

	// File is optional.
	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	if strings.TrimSpace(c.Database.Driver) == "" {
		return errors.New("database.driver must not be empty")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.RateLimit.PerMinute <= 0 {
		return errors.New("ratelimit.per_minute must be positive")
	}
	return nil
}
