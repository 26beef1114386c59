package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved process configuration.
type Config struct {
	Host   string
	Port   string
	DBPath string
	Auth   AuthConfig
	Log    LogConfig
	Server ServerConfig
}

type AuthConfig struct {
	JWTSecretFile   string
	RegPasswordFile string
	Issuer          string
	TokenTTL        time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Addr joins host and port into a listen address.
func (c Config) Addr() string {
	return c.Host + ":" + strings.TrimPrefix(c.Port, ":")
}

// Keys and their environment aliases.
const (
	KeyHost            = "host"
	KeyPort            = "port"
	KeyDBPath          = "db.path"
	KeyJWTSecretFile   = "auth.jwt_secret_file"
	KeyRegPasswordFile = "auth.reg_password_file"
	KeyIssuer          = "auth.issuer"
	KeyTokenTTL        = "auth.token_ttl"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyReadHeader      = "server.read_header_timeout"
	KeyWrite           = "server.write_timeout"
	KeyIdle            = "server.idle_timeout"
	KeyShutdown        = "server.shutdown_timeout"
)

var envAliases = map[string]string{
	KeyHost:            "HOST",
	KeyPort:            "PORT",
	KeyDBPath:          "DATABASE_URL",
	KeyJWTSecretFile:   "JWT_SECRETFILE",
	KeyRegPasswordFile: "REG_PASSWORD_FILE",
	KeyIssuer:          "JWT_ISSUER",
	KeyTokenTTL:        "JWT_TTL",
	KeyLogLevel:        "LOG_LEVEL",
	KeyLogFormat:       "LOG_FORMAT",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHost, "127.0.0.1")
	v.SetDefault(KeyPort, "3000")
	v.SetDefault(KeyDBPath, "db/quotes.db")
	v.SetDefault(KeyJWTSecretFile, "secrets/jwt_secret.txt")
	v.SetDefault(KeyRegPasswordFile, "secrets/reg_password.txt")
	v.SetDefault(KeyIssuer, "quote-server.example.com")
	v.SetDefault(KeyTokenTTL, 24*time.Hour)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyReadHeader, 10*time.Second)
	v.SetDefault(KeyWrite, 10*time.Second)
	v.SetDefault(KeyIdle, 60*time.Second)
	v.SetDefault(KeyShutdown, 10*time.Second)

	for key, env := range envAliases {
		_ = v.BindEnv(key, env)
	}
}

// Load reads an optional config file into v and resolves a Config.
// An empty path searches ./configs/config.yml; a missing default file is not
// an error, a missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Host:   v.GetString(KeyHost),
		Port:   v.GetString(KeyPort),
		DBPath: v.GetString(KeyDBPath),
		Auth: AuthConfig{
			JWTSecretFile:   v.GetString(KeyJWTSecretFile),
			RegPasswordFile: v.GetString(KeyRegPasswordFile),
			Issuer:          v.GetString(KeyIssuer),
			TokenTTL:        v.GetDuration(KeyTokenTTL),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Server: ServerConfig{
			ReadHeaderTimeout: v.GetDuration(KeyReadHeader),
			WriteTimeout:      v.GetDuration(KeyWrite),
			IdleTimeout:       v.GetDuration(KeyIdle),
			ShutdownTimeout:   v.GetDuration(KeyShutdown),
		},
	}
	if cfg.Auth.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %v", KeyTokenTTL, cfg.Auth.TokenTTL)
	}
	return cfg, nil
}

// ReadSecret loads a secret from path once, trimming surrounding whitespace.
// An empty file is an error.
func ReadSecret(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file %q: %w", path, err)
	}
	secret := strings.TrimSpace(string(b))
	if secret == "" {
		return "", fmt.Errorf("secret file %q is empty", path)
	}
	return secret, nil
}
