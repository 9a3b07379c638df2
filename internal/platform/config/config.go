package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Load returns a viper instance bound to environment variables with the
// given prefix. A .env file in the working directory is loaded first when
// present; variables already set in the environment win.
func Load(prefix string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// GetAppEnv returns APP_ENV, defaulting to development.
func GetAppEnv(v *viper.Viper) string {
	v.SetDefault("APP_ENV", "development")
	return v.GetString("APP_ENV")
}

// GetServicePort returns the listen address for key, always prefixed with ':'.
func GetServicePort(v *viper.Viper, key string) string {
	v.SetDefault(key, "8080")
	port := strings.TrimPrefix(v.GetString(key), ":")
	return ":" + port
}

// GetDuration reads a duration such as "90s", returning def when the value is unset.
func GetDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

// GetFloat64 reads a number, unlike viper.GetFloat64 which turns garbage into 0.
func GetFloat64(v *viper.Viper, key string) (float64, error) {
	f, err := cast.ToFloat64E(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v.GetString(key))
	}
	return f, nil
}

// GetInt reads an integer.
func GetInt(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v.GetString(key))
	}
	return n, nil
}

// GetList splits a comma separated value into trimmed, non-empty items.
func GetList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range strings.Split(v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a key/value connection string for the postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LoadDatabaseConfig reads DB_* settings with local development defaults.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) (DatabaseConfig, error) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault(dbNameKey, "quote")
	v.SetDefault("DB_SSLMODE", "disable")

	port, err := GetInt(v, "DB_PORT")
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     port,
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(dbNameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}, nil
}

// KafkaConfig holds event publishing settings. No brokers means publishing is off.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadKafkaConfig reads KAFKA_BROKERS and KAFKA_TOPIC.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	v.SetDefault("KAFKA_TOPIC", "quote.events")
	return KafkaConfig{
		Brokers: GetList(v, "KAFKA_BROKERS"),
		Topic:   v.GetString("KAFKA_TOPIC"),
	}
}
