package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

type Config struct {
	Port      int             `mapstructure:"port"`
	App       AppConfig       `mapstructure:"app"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	Reminders RemindersConfig `mapstructure:"reminders"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

// DBConfig: DSN vacío => storage in-memory.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	Voice      string `mapstructure:"voice"`
	Language   string `mapstructure:"language"`
}

// Configured indica si hay credenciales completas; si no, se usa el dispatcher de log.
func (t TwilioConfig) Configured() bool {
	return strings.TrimSpace(t.AccountSID) != "" &&
		strings.TrimSpace(t.AuthToken) != "" &&
		strings.TrimSpace(t.FromNumber) != ""
}

type RemindersConfig struct {
	CountryCode string        `mapstructure:"country_code"`
	CallDelay   time.Duration `mapstructure:"call_delay"`
	PreOffsets  []int         `mapstructure:"pre_offsets"`
	PostOffset  int           `mapstructure:"post_offset"`
}

// Load lee defaults, config.yaml opcional y variables de entorno (db.dsn => DB_DSN).
// Si path no es vacío se usa ese archivo y debe existir.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/medication-adherence")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("app.name", "medication-adherence")
	v.SetDefault("db.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)

	// Sin default las variables TWILIO_* no se ven en Unmarshal.
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.from_number", "")
	v.SetDefault("twilio.voice", "alice")
	v.SetDefault("twilio.language", "en-IN")

	v.SetDefault("reminders.country_code", "+91")
	v.SetDefault("reminders.call_delay", "1s")
	v.SetDefault("reminders.pre_offsets", []int{15, 10, 5, 0})
	v.SetDefault("reminders.post_offset", 5)
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.Reminders.CallDelay < 0 {
		return fmt.Errorf("%w: reminders.call_delay must be >= 0", ErrInvalidConfig)
	}
	if c.Reminders.PostOffset <= 0 {
		return fmt.Errorf("%w: reminders.post_offset must be > 0", ErrInvalidConfig)
	}
	for _, o := range c.Reminders.PreOffsets {
		if o < 0 {
			return fmt.Errorf("%w: reminders.pre_offsets must be >= 0, got %d", ErrInvalidConfig, o)
		}
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
