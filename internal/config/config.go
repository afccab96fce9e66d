package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
	MaxRetries      int    `mapstructure:"max_retries"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// DSN is the pgx URL form, usable by both otelsql and golang-migrate.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type KafkaConfig struct {
	Broker             string        `mapstructure:"broker"`
	NotificationTopic  string        `mapstructure:"notification_topic"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	OutboxBatchSize    int           `mapstructure:"outbox_batch_size"`
	OutboxMaxRetries   int           `mapstructure:"outbox_max_retries"`
	OutboxRetention    time.Duration `mapstructure:"outbox_retention"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

type AWSConfig struct {
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"` // LocalStack in local dev
	SenderEmail string `mapstructure:"sender_email"`
}

// ScheduleConfig holds the clinic's shift rules. Times are HH:MM.
type ScheduleConfig struct {
	ClinicOpen       string        `mapstructure:"clinic_open"`
	ClinicClose      string        `mapstructure:"clinic_close"`
	NightShiftStart  string        `mapstructure:"night_shift_start"`
	BreakStart       string        `mapstructure:"break_start"`
	BreakEnd         string        `mapstructure:"break_end"`
	MinDurationHours float64       `mapstructure:"min_duration_hours"`
	MaxDurationHours float64       `mapstructure:"max_duration_hours"`
	IDMaxAttempts    int           `mapstructure:"id_max_attempts"`
	MaxTimeOffDays   int           `mapstructure:"max_time_off_days"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

// Load reads defaults, then config.yaml (if any), then CLINIC_* env vars.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "pdcms")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.max_retries", 5)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 5)

	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.notification_topic", "clinic.schedule.notifications.v1")
	v.SetDefault("kafka.consumer_group", "pdcms-schedule-notifier")
	v.SetDefault("kafka.outbox_poll_interval", "3s")
	v.SetDefault("kafka.outbox_batch_size", 50)
	v.SetDefault("kafka.outbox_max_retries", 10)
	v.SetDefault("kafka.outbox_retention", "168h")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telemetry.service_name", "pdcms-scheduling")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.enabled", true)

	v.SetDefault("aws.region", "ap-southeast-1")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.sender_email", "no-reply@denteeth.vn")

	v.SetDefault("schedule.clinic_open", "08:00")
	v.SetDefault("schedule.clinic_close", "21:00")
	v.SetDefault("schedule.night_shift_start", "18:00")
	v.SetDefault("schedule.break_start", "12:00")
	v.SetDefault("schedule.break_end", "13:00")
	v.SetDefault("schedule.min_duration_hours", 3.0)
	v.SetDefault("schedule.max_duration_hours", 8.0)
	v.SetDefault("schedule.id_max_attempts", 3)
	v.SetDefault("schedule.max_time_off_days", 366)
	v.SetDefault("schedule.cache_ttl", "1h")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
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
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	return c.Schedule.Validate()
}

func (s ScheduleConfig) Validate() error {
	fields := map[string]string{
		"schedule.clinic_open":       s.ClinicOpen,
		"schedule.clinic_close":      s.ClinicClose,
		"schedule.night_shift_start": s.NightShiftStart,
		"schedule.break_start":       s.BreakStart,
		"schedule.break_end":         s.BreakEnd,
	}
	for key, value := range fields {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("config: %s must be HH:MM, got %q", key, value)
		}
	}
	if s.MinDurationHours <= 0 || s.MaxDurationHours < s.MinDurationHours {
		return fmt.Errorf("config: schedule duration bounds are invalid (%.1f..%.1f)", s.MinDurationHours, s.MaxDurationHours)
	}
	if s.IDMaxAttempts < 1 {
		return fmt.Errorf("config: schedule.id_max_attempts must be positive")
	}
	if s.MaxTimeOffDays < 0 {
		return fmt.Errorf("config: schedule.max_time_off_days must not be negative")
	}
	return nil
}
