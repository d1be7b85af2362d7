package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	ContentPath  string
	DataPath     string // local device state (device id cache)
	SupportEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Payment / verification
	PaymentProvider string // "lemonsqueezy", "stripe" or "polar"
	// Lemon Squeezy
	LemonSqueezyAPIKey        string
	LemonSqueezyWebhookSecret string
	LemonSqueezyCheckoutURL   string
	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string
	// Polar
	PolarAPIKey        string
	PolarWebhookSecret string
	PolarProductID     string
	PolarSandboxMode   bool

	// Mentor (AI chat)
	MentorAPIKey   string
	MentorModel    string
	MentorEndpoint string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	// Holds voice/video confession media.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Rompe el Ciclo"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envRequired("APP_URL"),
		Port:         envString("PORT", "8090"),
		ContentPath:  envString("CONTENT_PATH", "content"),
		DataPath:     envString("DATA_PATH", "./data"),
		SupportEmail: envString("SUPPORT_EMAIL", "hola@rompeelciclo.app"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/rompeelciclo.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Payment / verification
		PaymentProvider:           envString("PAYMENT_PROVIDER", "lemonsqueezy"),
		LemonSqueezyAPIKey:        envString("LEMON_SQUEEZY_API_KEY", ""),
		LemonSqueezyWebhookSecret: envString("LEMON_SQUEEZY_WEBHOOK_SECRET", ""),
		LemonSqueezyCheckoutURL:   envString("LEMON_SQUEEZY_CHECKOUT_URL", ""),
		StripeSecretKey:           envString("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:       envString("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceID:             envString("STRIPE_PRICE_ID", ""),
		PolarAPIKey:               envString("POLAR_API_KEY", ""),
		PolarWebhookSecret:        envString("POLAR_WEBHOOK_SECRET", ""),
		PolarProductID:            envString("POLAR_PRODUCT_ID", ""),
		PolarSandboxMode:          envBool("POLAR_SANDBOX_MODE", envString("APP_ENV", "development") == "development"),

		// Mentor (GEMINI_API_KEY optional in development: chat degrades to an in-band error)
		MentorAPIKey:   envString("GEMINI_API_KEY", ""),
		MentorModel:    envString("MENTOR_MODEL", "gemini-flash-latest"),
		MentorEndpoint: envString("MENTOR_ENDPOINT", "https://generativelanguage.googleapis.com"),

		// Email (RESEND_API_KEY optional in development, emails are logged instead)
		EmailFrom:    envString("EMAIL_FROM", "noreply@rompeelciclo.app"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (optional in development: confessions degrade to text-only)
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production
// deployments. Development allows fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.MentorAPIKey == "" {
		slog.Error("production deployment requires GEMINI_API_KEY",
			"hint", "set APP_ENV=development to run the mentor in degraded mode")
		os.Exit(1)
	}
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.S3Bucket == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		slog.Error("production deployment requires S3 credentials for confession media",
			"hint", "set S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

// Sanitized returns a copy safe to place on request contexts: secrets and
// credentials are blanked.
func (c *Config) Sanitized() *Config {
	out := *c
	out.JWTSecret = ""
	out.LemonSqueezyAPIKey = ""
	out.LemonSqueezyWebhookSecret = ""
	out.StripeSecretKey = ""
	out.StripeWebhookSecret = ""
	out.PolarAPIKey = ""
	out.PolarWebhookSecret = ""
	out.MentorAPIKey = ""
	out.ResendAPIKey = ""
	out.S3AccessKey = ""
	out.S3SecretKey = ""
	return &out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
