package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var ErrDatabaseURLRequired = errors.New("database URL is required")

type Config struct {
	Debug            bool          `yaml:"debug"`
	Dev              bool          `yaml:"dev"`
	Host             string        `yaml:"host"`
	Port             string        `yaml:"port"`
	Secret           string        `yaml:"secret"`
	DatabaseURL      string        `yaml:"database_url"`
	MigrationSource  string        `yaml:"migration_source"`
	OtelCollectorUrl string        `yaml:"otel_collector_url"`
	RedisURL         string        `yaml:"redis_url"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	CasbinModelPath  string        `yaml:"casbin_model_path"`
	CasbinPolicyPath string        `yaml:"casbin_policy_path"`
	AllowOrigins     []string      `yaml:"allow_origins"`
}

func defaultConfig() Config {
	return Config{
		Debug:            false,
		Dev:              false,
		Host:             "localhost",
		Port:             "8080",
		Secret:           DefaultSecret,
		DatabaseURL:      "",
		MigrationSource:  "file://migrations",
		OtelCollectorUrl: "",
		RedisURL:         "",
		CacheTTL:         5 * time.Minute,
		CasbinModelPath:  "internal/auth/casbin/model.conf",
		CasbinPolicyPath: "internal/auth/casbin/policy.csv",
		AllowOrigins:     []string{"http://localhost:5173"},
	}
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}

// Log buffers configuration loading events until the zap logger exists,
// since config has to be loaded before the logger can be built.
type Log struct {
	entries []logEntry
}

type logEntry struct {
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func (l *Log) Warn(message string, fields ...zap.Field) {
	l.entries = append(l.entries, logEntry{level: zapcore.WarnLevel, message: message, fields: fields})
}

func (l *Log) Info(message string, fields ...zap.Field) {
	l.entries = append(l.entries, logEntry{level: zapcore.InfoLevel, message: message, fields: fields})
}

func (l *Log) FlushToZap(logger *zap.Logger) {
	for _, e := range l.entries {
		switch e.level {
		case zapcore.WarnLevel:
			logger.Warn(e.message, e.fields...)
		default:
			logger.Info(e.message, e.fields...)
		}
	}
	l.entries = nil
}

// Load resolves configuration in increasing precedence: defaults, yaml
// config file, .env file, environment variables, then command line flags.
func Load() (Config, *Log) {
	cfgLog := &Log{}

	config := defaultConfig()
	config = *config.loadConfigFile("config.yaml", cfgLog)
	config = *config.loadEnvFile(".env", cfgLog)
	config = *config.loadEnv(cfgLog)
	config = *config.loadFlags(cfgLog)

	return config, cfgLog
}

func (c Config) merge(other Config) *Config {
	if other.Debug {
		c.Debug = other.Debug
	}
	if other.Dev {
		c.Dev = other.Dev
	}
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != "" {
		c.Port = other.Port
	}
	if other.Secret != "" {
		c.Secret = other.Secret
	}
	if other.DatabaseURL != "" {
		c.DatabaseURL = other.DatabaseURL
	}
	if other.MigrationSource != "" {
		c.MigrationSource = other.MigrationSource
	}
	if other.OtelCollectorUrl != "" {
		c.OtelCollectorUrl = other.OtelCollectorUrl
	}
	if other.RedisURL != "" {
		c.RedisURL = other.RedisURL
	}
	if other.CacheTTL != 0 {
		c.CacheTTL = other.CacheTTL
	}
	if other.CasbinModelPath != "" {
		c.CasbinModelPath = other.CasbinModelPath
	}
	if other.CasbinPolicyPath != "" {
		c.CasbinPolicyPath = other.CasbinPolicyPath
	}
	if len(other.AllowOrigins) > 0 {
		c.AllowOrigins = other.AllowOrigins
	}
	return &c
}

func (c Config) loadConfigFile(path string, cfgLog *Log) *Config {
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfgLog.Info("No config file found, skipping", zap.String("path", path))
			return &c
		}
		cfgLog.Warn("Failed to read config file", zap.String("path", path), zap.Error(err))
		return &c
	}

	var fileConfig Config
	err = yaml.Unmarshal(file, &fileConfig)
	if err != nil {
		cfgLog.Warn("Failed to parse config file", zap.String("path", path), zap.Error(err))
		return &c
	}

	cfgLog.Info("Loaded config file", zap.String("path", path))
	return c.merge(fileConfig)
}

func (c Config) loadEnvFile(path string, cfgLog *Log) *Config {
	err := godotenv.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfgLog.Info("No env file found, skipping", zap.String("path", path))
			return &c
		}
		cfgLog.Warn("Failed to load env file", zap.String("path", path), zap.Error(err))
		return &c
	}

	cfgLog.Info("Loaded env file", zap.String("path", path))
	return &c
}

func (c Config) loadEnv(cfgLog *Log) *Config {
	var envConfig Config

	envConfig.Debug = os.Getenv("DEBUG") == "true"
	envConfig.Dev = os.Getenv("DEV") == "true"
	envConfig.Host = os.Getenv("HOST")
	envConfig.Port = os.Getenv("PORT")
	envConfig.Secret = os.Getenv("SECRET")
	envConfig.DatabaseURL = os.Getenv("DATABASE_URL")
	envConfig.MigrationSource = os.Getenv("MIGRATION_SOURCE")
	envConfig.OtelCollectorUrl = os.Getenv("OTEL_COLLECTOR_URL")
	envConfig.RedisURL = os.Getenv("REDIS_URL")
	envConfig.CasbinModelPath = os.Getenv("CASBIN_MODEL_PATH")
	envConfig.CasbinPolicyPath = os.Getenv("CASBIN_POLICY_PATH")

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			cfgLog.Warn("Failed to parse CACHE_TTL, ignoring", zap.String("value", raw), zap.Error(err))
		} else {
			envConfig.CacheTTL = ttl
		}
	}

	if raw := os.Getenv("ALLOW_ORIGINS"); raw != "" {
		envConfig.AllowOrigins = splitOrigins(raw)
	}

	return c.merge(envConfig)
}

func (c Config) loadFlags(cfgLog *Log) *Config {
	if flag.Parsed() {
		cfgLog.Warn("Flags already parsed, skipping flag loading")
		return &c
	}

	var flagConfig Config

	flag.BoolVar(&flagConfig.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&flagConfig.Dev, "dev", false, "enable development mode")
	flag.StringVar(&flagConfig.Host, "host", "", "server host")
	flag.StringVar(&flagConfig.Port, "port", "", "server port")
	flag.StringVar(&flagConfig.Secret, "secret", "", "JWT signing secret")
	flag.StringVar(&flagConfig.DatabaseURL, "database_url", "", "database connection URL")
	flag.StringVar(&flagConfig.MigrationSource, "migration_source", "", "database migration source")
	flag.StringVar(&flagConfig.OtelCollectorUrl, "otel_collector_url", "", "OpenTelemetry collector URL")
	flag.StringVar(&flagConfig.RedisURL, "redis_url", "", "redis connection URL for caching")
	flag.StringVar(&flagConfig.CasbinModelPath, "casbin_model_path", "", "casbin model file path")
	flag.StringVar(&flagConfig.CasbinPolicyPath, "casbin_policy_path", "", "casbin policy file path")
	flag.DurationVar(&flagConfig.CacheTTL, "cache_ttl", 0, "result cache TTL")
	allowOrigins := flag.String("allow_origins", "", "comma separated list of allowed CORS origins")

	flag.Parse()

	if *allowOrigins != "" {
		flagConfig.AllowOrigins = splitOrigins(*allowOrigins)
	}

	return c.merge(flagConfig)
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c Config) String() string {
	return fmt.Sprintf("host=%s port=%s debug=%t migration_source=%s", c.Host, c.Port, c.Debug, c.MigrationSource)
}
