package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/Simplici0/marginguard/internal/logger"
)

const (
	defaultDBPath         = "./marginguard.db"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultAppEnv         = "production"
	defaultRateLimitRPS   = 20.0
	defaultRateLimitBurst = 40
)

// Config holds application configuration sourced from the environment and an optional .env file.
type Config struct {
	Port           string
	DBPath         string
	LogLevel       string
	APIKey         string
	PolicyPath     string
	AppEnv         string
	RateLimitRPS   float64
	RateLimitBurst int
}

func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Load reads ./.env (if present) and the process environment.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. Real environment variables
// always win over the file.
func LoadFrom(dotenvPath string) Config {
	v := viper.New()
	v.SetDefault("port", defaultPort)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("app_env", defaultAppEnv)
	v.SetDefault("rate_limit_rps", defaultRateLimitRPS)
	v.SetDefault("rate_limit_burst", defaultRateLimitBurst)

	if err := mergeDotEnv(v, dotenvPath); err != nil {
		logger.Warnf("config: ignoring %s: %v", dotenvPath, err)
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		LogLevel:       v.GetString("log_level"),
		APIKey:         v.GetString("api_key"),
		PolicyPath:     v.GetString("policy_path"),
		AppEnv:         v.GetString("app_env"),
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}
	if cfg.APIKey == "" && !cfg.IsDev() {
		logger.Warnf("warning: API_KEY is not set, API is unauthenticated")
	}

	return cfg
}
