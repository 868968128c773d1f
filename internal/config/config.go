package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	S3        S3Config
	NATS      NATSConfig
	Inference InferenceConfig
	Admin     AdminSeedConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret      string
	RefreshSecret     string
	AccessExpiresIn   time.Duration
	RefreshExpiresIn  time.Duration
	CookieName        string
	RefreshCookieName string
	CookieSecure      bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type InferenceConfig struct {
	SentimentURL      string
	ToxicityURL       string
	RecommendationURL string
	Timeout           time.Duration
	ToxicityThreshold float64
}

type AdminSeedConfig struct {
	Email    string
	Password string
}

const (
	DefaultPoolMaxConns = 10
	DefaultCookieName   = "auth_token"
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the process environment. A .env file in the working directory
// is loaded first when present; variables already set take precedence.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             stringOr(opt("DB_SSL_MODE"), "disable"),
		ConnectTimeout:        durationOr(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS"), DefaultPoolMaxConns)),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   durationOr(opt("DB_POOL_MAX_CONN_LIFETIME"), time.Hour),
		PoolMaxConnIdleTime:   durationOr(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 30*time.Minute),
		PoolHealthCheckPeriod: durationOr(opt("DB_POOL_HEALTH_CHECK_PERIOD"), time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:      req("JWT_ACCESS_SECRET"),
		RefreshSecret:     req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:   durationOr(opt("JWT_ACCESS_EXPIRES_IN"), 15*time.Minute),
		RefreshExpiresIn:  durationOr(opt("JWT_REFRESH_EXPIRES_IN"), 7*24*time.Hour),
		CookieName:        stringOr(opt("AUTH_COOKIE_NAME"), DefaultCookieName),
		RefreshCookieName: stringOr(opt("REFRESH_COOKIE_NAME"), "refresh_token"),
		CookieSecure:      boolOr(opt("AUTH_COOKIE_SECURE"), false),
	}

	cfg.Redis = RedisConfig{
		Addr:     stringOr(opt("REDIS_ADDR"), "localhost:6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       intOr(opt("REDIS_DB"), 0),
		StatsTTL: durationOr(opt("ADMIN_STATS_TTL"), time.Minute),
	}

	cfg.S3 = S3Config{
		Endpoint:        opt("S3_ENDPOINT"),
		Region:          stringOr(opt("AWS_REGION"), "us-east-1"),
		Bucket:          opt("S3_BUCKET_NAME"),
		AccessKeyID:     opt("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: opt("AWS_SECRET_ACCESS_KEY"),
		UsePathStyle:    boolOr(opt("S3_USE_PATH_STYLE"), false),
		PresignExpiry:   durationOr(opt("S3_PRESIGN_EXPIRY"), 15*time.Minute),
	}

	cfg.NATS = NATSConfig{
		URL:           opt("NATS_URL"),
		SubjectPrefix: stringOr(opt("NATS_SUBJECT_PREFIX"), "gig"),
	}

	cfg.Inference = InferenceConfig{
		SentimentURL:      opt("SENTIMENT_URL"),
		ToxicityURL:       opt("TOXICITY_URL"),
		RecommendationURL: opt("RECOMMENDATION_URL"),
		Timeout:           durationOr(opt("INFERENCE_TIMEOUT"), 3*time.Second),
		ToxicityThreshold: floatOr(opt("TOXICITY_THRESHOLD"), 0.8),
	}

	cfg.Admin = AdminSeedConfig{
		Email:    opt("ADMIN_EMAIL"),
		Password: opt("ADMIN_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatOr(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolOr(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// durationOr accepts Go duration strings ("90s") and bare integers as seconds.
func durationOr(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
