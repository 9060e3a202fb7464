package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Mail      MailConfig      `mapstructure:"mail" validate:"required"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for the API middleware.
// Token issuance is handled by the surrounding system; this engine only
// verifies bearer tokens signed with the shared secret.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// MailConfig contains the SMTP delivery channel settings.
type MailConfig struct {
	Host     string        `mapstructure:"host" validate:"required"`
	Port     int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	From     string        `mapstructure:"from" validate:"required,email"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"required"`
}

// CalendarConfig contains the optional Google Calendar side-channel
// settings. An empty CredentialsFile disables calendar placement.
type CalendarConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	TimeZone        string `mapstructure:"time_zone"`
}

// SchedulerConfig contains the reminder sweep and due-date engine knobs.
type SchedulerConfig struct {
	// SweepInterval is how often the dispatcher looks for due reminders.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`

	// SweepBatchSize caps how many reminders a single sweep claims.
	SweepBatchSize int `mapstructure:"sweep_batch_size" validate:"required,gt=0"`

	// HolidayCacheTTL is the staleness tolerance for holiday snapshots.
	// Zero means every computation reads the holiday set fresh.
	HolidayCacheTTL time.Duration `mapstructure:"holiday_cache_ttl"`
}
