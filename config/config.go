package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/life-lessons/api-go/storage"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	IdentityFirebase = "firebase"
	IdentityJWT      = "jwt"
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	Port        string `mapstructure:"PORT"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`

	MongoURI         string `mapstructure:"MONGO_URI"`
	DBUser           string `mapstructure:"DB_USER"`
	DBPass           string `mapstructure:"DB_PASS"`
	MongoClusterHost string `mapstructure:"MONGO_CLUSTER_HOST"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`

	IdentityProvider   string `mapstructure:"IDENTITY_PROVIDER"`
	FirebaseServiceKey string `mapstructure:"FIREBASE_SERVICE_KEY"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`

	StripeSecretKey    string `mapstructure:"STRIPE_SECRET_KEY"`
	ClientURL          string `mapstructure:"CLIENT_URL"`
	PremiumProductName string `mapstructure:"PREMIUM_PRODUCT_NAME"`
	PremiumPrice       int64  `mapstructure:"PREMIUM_PRICE"`
	PremiumCurrency    string `mapstructure:"PREMIUM_CURRENCY"`

	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     string `mapstructure:"ALLOWED_ORIGINS"`

	CloudflareAccountID       string `mapstructure:"CLOUDFLARE_ACCOUNT_ID"`
	CloudflareAccessKeyID     string `mapstructure:"CLOUDFLARE_ACCESS_KEY_ID"`
	CloudflareSecretAccessKey string `mapstructure:"CLOUDFLARE_SECRET_ACCESS_KEY"`
	CloudflareBucketName      string `mapstructure:"CLOUDFLARE_BUCKET_NAME"`
	CloudflarePublicURL       string `mapstructure:"CLOUDFLARE_PUBLIC_URL"`

	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"APP_ENV":                      "development",
	"PORT":                         "3000",
	"STORE_DRIVER":                 DriverMongo,
	"MONGO_URI":                    "",
	"DB_USER":                      "",
	"DB_PASS":                      "",
	"MONGO_CLUSTER_HOST":           "",
	"MONGO_DATABASE":               "life_lessons_db",
	"DATABASE_URL":                 "",
	"IDENTITY_PROVIDER":            IdentityFirebase,
	"FIREBASE_SERVICE_KEY":         "",
	"JWT_SECRET":                   "",
	"STRIPE_SECRET_KEY":            "",
	"CLIENT_URL":                   "http://localhost:5173",
	"PREMIUM_PRODUCT_NAME":         "Digital Life Lessons Premium",
	"PREMIUM_PRICE":                1500,
	"PREMIUM_CURRENCY":             "usd",
	"REDIS_ADDR":                   "",
	"RATE_LIMIT_PER_MINUTE":        30,
	"ALLOWED_ORIGINS":              "",
	"CLOUDFLARE_ACCOUNT_ID":        "",
	"CLOUDFLARE_ACCESS_KEY_ID":     "",
	"CLOUDFLARE_SECRET_ACCESS_KEY": "",
	"CLOUDFLARE_BUCKET_NAME":       "",
	"CLOUDFLARE_PUBLIC_URL":        "",
	"SHUTDOWN_TIMEOUT":             "10s",
}

// Load reads the configuration from the environment. A .env file, if any,
// must already have been loaded into the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "" || c.MongoClusterHost == "") {
			return fmt.Errorf("mongo store needs MONGO_URI or DB_USER, DB_PASS and MONGO_CLUSTER_HOST")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres store needs DATABASE_URL")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.IdentityProvider {
	case IdentityFirebase:
		if c.FirebaseServiceKey == "" {
			return fmt.Errorf("firebase identity needs FIREBASE_SERVICE_KEY")
		}
	case IdentityJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("jwt identity needs JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PremiumPrice <= 0 {
		return fmt.Errorf("PREMIUM_PRICE must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI, or an Atlas SRV URI assembled from
// the cluster host and credentials.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.MongoClusterHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) R2() storage.R2Config {
	return storage.R2Config{
		AccountID:       c.CloudflareAccountID,
		AccessKeyID:     c.CloudflareAccessKeyID,
		SecretAccessKey: c.CloudflareSecretAccessKey,
		BucketName:      c.CloudflareBucketName,
		PublicURL:       c.CloudflarePublicURL,
	}
}
