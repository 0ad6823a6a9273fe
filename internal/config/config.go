// Package config loads service configuration from the environment.
//
// Secrets for external providers are deliberately optional at load time:
// a handler whose provider key is absent reports an explicit missing-key
// error on use, so the rest of the API stays serviceable.
package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config holds the full service configuration.
type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	AI       AIConfig
	Mail     MailConfig
	Notify   NotifyConfig
	Log      LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string   `env:"SERVER_ADDR,default=:8080"`
	SiteURL        string   `env:"PUBLIC_SITE_URL,default=http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	SectionsPath   string   `env:"NAV_SECTIONS_PATH"`
}

// SupabaseConfig configures the hosted Postgres/auth backend.
type SupabaseConfig struct {
	URL        string `env:"SUPABASE_URL"`
	AnonKey    string `env:"SUPABASE_ANON_KEY"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	JWTSecret  string `env:"SUPABASE_JWT_SECRET"`
}

// AIConfig configures the text-generation providers.
type AIConfig struct {
	Provider    string `env:"AI_PROVIDER,default=openai"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	GeminiKey   string `env:"GEMINI_API_KEY"`
	GeminiModel string `env:"GEMINI_MODEL,default=gemini-1.5-flash"`
}

// MailConfig configures outbound email.
type MailConfig struct {
	ResendKey    string `env:"RESEND_API_KEY"`
	From         string `env:"MAIL_FROM,default=Mind180 <no-reply@mind180.app>"`
	CoachAddress string `env:"COACH_EMAIL"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

// NotifyConfig configures the coach-reply webhook endpoint.
type NotifyConfig struct {
	// StaticToken is the shared secret the database webhook presents
	// as a bearer token on /api/user-notify.
	StaticToken string `env:"NOTIFY_STATIC_TOKEN"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
}

// Load decodes configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}
