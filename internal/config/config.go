package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	DatabaseURL string `mapstructure:"database_url"`

	SupabaseURL       string `mapstructure:"supabase_url"`
	SupabaseAnonKey   string `mapstructure:"supabase_anon_key"`
	SupabaseJWTSecret string `mapstructure:"supabase_jwt_secret"`

	MongoDBURI      string `mapstructure:"mongodb_uri"`
	MongoDBPassword string `mapstructure:"mongodb_password"`
	MongoDBDatabase string `mapstructure:"mongodb_database"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	CloudinaryCloudName string `mapstructure:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `mapstructure:"cloudinary_api_key"`
	CloudinaryAPISecret string `mapstructure:"cloudinary_api_secret"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	AllowedEmailDomain string   `mapstructure:"allowed_email_domain"`

	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	PresenceTTL        time.Duration `mapstructure:"presence_ttl"`
}

// LoadConfig reads settings from the environment. Call godotenv first if a
// .env file should take part.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"database_url", "supabase_url", "supabase_anon_key", "supabase_jwt_secret",
		"mongodb_uri", "mongodb_password", "redis_password",
		"cloudinary_cloud_name", "cloudinary_api_key", "cloudinary_api_secret",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma separated values arrive as one string from the environment.
	cfg.CORSAllowedOrigins = splitList(strings.Join(cfg.CORSAllowedOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("mongodb_database", "foodshare")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("allowed_email_domain", "emory.edu")
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("presence_ttl", "90s")
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// MongoEnabled reports whether saved resources can be backed by MongoDB.
func (c *Config) MongoEnabled() bool {
	return c.MongoDBURI != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
