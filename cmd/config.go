package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment; a .env file in the working directory is
// loaded first when present. Variables already set in the environment win.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" env-default:"8080"`

	DBHost     string `env:"DB_HOST"     env-default:"localhost"`
	DBPort     string `env:"DB_PORT"     env-default:"5432"`
	DBUser     string `env:"DB_USER"     env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"     env-default:"bagpub"`
	DBSslMode  string `env:"DB_SSLMODE"  env-default:"disable"`

	// An empty AMQPURL logs notifications instead of publishing them.
	AMQPURL   string `env:"AMQP_URL"`
	AMQPQueue string `env:"AMQP_QUEUE" env-default:"bagpub.notifications"`

	AssetDir string `env:"ASSET_DIR" env-default:"./media"`

	LogLevel  string `env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	NotificationWorkers     int           `env:"NOTIFICATION_WORKERS"      env-default:"4"`
	NotificationQueueSize   int           `env:"NOTIFICATION_QUEUE_SIZE"   env-default:"1024"`
	NotificationMaxAttempts int           `env:"NOTIFICATION_MAX_ATTEMPTS" env-default:"3"`
	NotificationBackoff     time.Duration `env:"NOTIFICATION_BACKOFF"      env-default:"2s"`

	CampaignRateLimit  int           `env:"CAMPAIGN_RATE_LIMIT"  env-default:"10"`
	CampaignRateWindow time.Duration `env:"CAMPAIGN_RATE_WINDOW" env-default:"1h"`

	RateCounterPurgeSpec string `env:"RATE_COUNTER_PURGE_SPEC" env-default:"0 */10 * * * *"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// LoadConfig loads envFile (if it exists), binds the environment and validates the result.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	if c.DBHost == "" || c.DBName == "" {
		problems = append(problems, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.CampaignRateLimit <= 0 {
		problems = append(problems, fmt.Errorf("CAMPAIGN_RATE_LIMIT must be > 0 (got %d)", c.CampaignRateLimit))
	}
	if c.CampaignRateWindow <= 0 {
		problems = append(problems, fmt.Errorf("CAMPAIGN_RATE_WINDOW must be > 0 (got %s)", c.CampaignRateWindow))
	}
	if c.NotificationWorkers <= 0 || c.NotificationQueueSize <= 0 || c.NotificationMaxAttempts <= 0 {
		problems = append(problems, errors.New("notification workers, queue size and attempts must be > 0"))
	}
	if c.AMQPURL != "" {
		if _, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Errorf("AMQP_URL: %w", err))
		}
	}
	return errors.Join(problems...)
}

// DSN builds the PostgreSQL connection string. Values are quoted so passwords may
// contain spaces.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password='%s' dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
