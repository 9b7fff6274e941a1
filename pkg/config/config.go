package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Wizard   WizardConfig
	Courses  CoursesConfig
	Events   EventsConfig
	Term     TermConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WizardConfig tunes the enrollment wizard behaviour.
type WizardConfig struct {
	SessionTTL           time.Duration
	TransitionDelay      time.Duration
	DeleteConfirmDelay   time.Duration
	DeleteConfirmTTL     time.Duration
	AvailabilityFailOpen bool
	OpenLevels           []string
}

// CoursesConfig tunes course catalog caching.
type CoursesConfig struct {
	CacheTTL time.Duration
}

// EventsConfig configures the submitted-event fanout.
type EventsConfig struct {
	Channel    string
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// TermConfig identifies the academic period enrollments are filed under.
type TermConfig struct {
	SchoolYear string
	SchoolName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Wizard = WizardConfig{
		SessionTTL:           parseDuration(v.GetString("WIZARD_SESSION_TTL"), 24*time.Hour),
		TransitionDelay:      parseDuration(v.GetString("WIZARD_TRANSITION_DELAY"), 600*time.Millisecond),
		DeleteConfirmDelay:   parseDuration(v.GetString("WIZARD_DELETE_CONFIRM_DELAY"), 5*time.Second),
		DeleteConfirmTTL:     parseDuration(v.GetString("WIZARD_DELETE_CONFIRM_TTL"), 10*time.Minute),
		AvailabilityFailOpen: v.GetBool("WIZARD_AVAILABILITY_FAIL_OPEN"),
		OpenLevels:           splitAndTrim(v.GetString("WIZARD_OPEN_LEVELS")),
	}

	cfg.Courses = CoursesConfig{
		CacheTTL: parseDuration(v.GetString("COURSES_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Events = EventsConfig{
		Channel:    v.GetString("EVENTS_CHANNEL"),
		Workers:    v.GetInt("EVENTS_WORKERS"),
		BufferSize: v.GetInt("EVENTS_BUFFER_SIZE"),
		MaxRetries: v.GetInt("EVENTS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("EVENTS_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Term = TermConfig{
		SchoolYear: v.GetString("SCHOOL_YEAR"),
		SchoolName: v.GetString("SCHOOL_NAME"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sis_enrollment")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WIZARD_AVAILABILITY_FAIL_OPEN", true)
	v.SetDefault("WIZARD_OPEN_LEVELS", "high-school,college")

	v.SetDefault("EVENTS_CHANNEL", "enrollment.submitted")
	v.SetDefault("EVENTS_WORKERS", 1)
	v.SetDefault("EVENTS_BUFFER_SIZE", 16)
	v.SetDefault("EVENTS_MAX_RETRIES", 3)

	v.SetDefault("SCHOOL_YEAR", "2026-2027")
	v.SetDefault("SCHOOL_NAME", "Richwell Colleges")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
