package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB backs the booking ledger and the self-hosted calendar.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	SessionBackend string `mapstructure:"SESSION_BACKEND"` // memory | redis
	SessionTTL     int    `mapstructure:"SESSION_TTL"`     // seconds, 0 keeps sessions forever

	// Extraction.
	AIProvider   string `mapstructure:"AI_PROVIDER"` // openai | gemini | none
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Calendar.
	CalendarBackend           string `mapstructure:"CALENDAR_BACKEND"` // google | mongo | mock
	GoogleCalendarCredentials string `mapstructure:"GOOGLE_CALENDAR_CREDENTIALS"`
	GoogleCalendarID          string `mapstructure:"GOOGLE_CALENDAR_ID"`
	CalendarTimeZone          string `mapstructure:"CALENDAR_TIMEZONE"`
	CalendarLinkBase          string `mapstructure:"CALENDAR_LINK_BASE"`

	GoogleSpeechCredentials string `mapstructure:"GOOGLE_SPEECH_CREDENTIALS"`

	CollaboratorTimeout int `mapstructure:"COLLABORATOR_TIMEOUT"` // seconds

	TelegramToken       string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramPollTimeout int    `mapstructure:"TELEGRAM_POLL_TIMEOUT"` // seconds

	WorkerEnabled bool `mapstructure:"WORKER_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "jobbot")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SESSION_BACKEND", "memory")
	viper.SetDefault("SESSION_TTL", 0)
	viper.SetDefault("AI_PROVIDER", "openai")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("CALENDAR_BACKEND", "google")
	viper.SetDefault("GOOGLE_CALENDAR_CREDENTIALS", "credentials.json")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_TIMEZONE", "America/Toronto")
	viper.SetDefault("CALENDAR_LINK_BASE", "/api/v1/calendar/events/")
	viper.SetDefault("GOOGLE_SPEECH_CREDENTIALS", "")
	viper.SetDefault("COLLABORATOR_TIMEOUT", 30)
	viper.SetDefault("TELEGRAM_TOKEN", "")
	viper.SetDefault("TELEGRAM_POLL_TIMEOUT", 10)
	viper.SetDefault("WORKER_ENABLED", false)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionExpiry is zero when sessions never expire.
func (c Config) SessionExpiry() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

func (c Config) Timeout() time.Duration {
	if c.CollaboratorTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.CollaboratorTimeout) * time.Second
}

// Location loads CALENDAR_TIMEZONE, falling back to the server zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CalendarTimeZone)
	if err != nil {
		log.Printf("Unknown CALENDAR_TIMEZONE %q, using local time", c.CalendarTimeZone)
		return time.Local
	}
	return loc
}
