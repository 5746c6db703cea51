package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis is optional. When unreachable, caching and per-user throttling are skipped.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Hour-of-day bounds (inclusive) during which missions may be generated.
	GenerationWindowStart int `mapstructure:"GENERATION_WINDOW_START"`
	GenerationWindowEnd   int `mapstructure:"GENERATION_WINDOW_END"`

	// How often the server fails missions whose deadline has passed. Zero disables the sweep.
	ExpireInterval time.Duration `mapstructure:"EXPIRE_INTERVAL"`

	// Max generation requests per user per hour (needs Redis).
	GenerateLimitPerHour int `mapstructure:"GENERATE_LIMIT_PER_HOUR"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("JWT_ISSUER", "lifequest-backend")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("GENERATION_WINDOW_START", 8)
	v.SetDefault("GENERATION_WINDOW_END", 20)
	v.SetDefault("EXPIRE_INTERVAL", "15m")
	v.SetDefault("GENERATE_LIMIT_PER_HOUR", 10)
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
}

// Load reads configuration from the given .env file (if present) and the environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig populates AppConfig from .env and the environment.
func LoadConfig() {
	cfg, err := Load(".env")
	if err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
	AppConfig = cfg
}
