package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
	"github.com/limo-transfers/service-quote/internal/platform/config"
)

// Cache and rate-limit backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// MapsConfig configures the distance-matrix provider. An empty APIKey
// disables it and every quote uses the rough estimate.
type MapsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// PricingConfig holds the tariff coefficients.
type PricingConfig struct {
	Currency        string
	Base            float64
	PerKm           float64
	PerMin          float64
	PerPax          float64
	PerBag          float64
	AfterHoursStart string
	AfterHoursEnd   string
	AfterHoursRate  float64
	Timezone        string
	AirportFee      float64
	AirportPattern  string
}

// FallbackConfig bounds the rough distance estimate.
type FallbackConfig struct {
	AirportKm float64
	MinKm     float64
	MaxKm     float64
}

// CacheConfig selects the distance cache tier.
type CacheConfig struct {
	Backend  string
	TTL      time.Duration
	RedisURL string
}

// RateLimitConfig limits requests per client IP.
type RateLimitConfig struct {
	Window  time.Duration
	Max     int
	Backend string
}

// ServiceConfig holds all configuration for the quote service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	APIKey      string
	Maps        MapsConfig
	Pricing     PricingConfig
	Fallback    FallbackConfig
	Cache       CacheConfig
	CORSOrigins []string
	RateLimit   RateLimitConfig
	DBConfig    config.DatabaseConfig
	KafkaConfig config.KafkaConfig

	loadErrs []error
}

// envReader collects parse failures so Validate can report them with the rest.
type envReader struct {
	v    *viper.Viper
	errs []error
}

func (r *envReader) float(key string) float64 {
	f, err := config.GetFloat64(r.v, key)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	return f
}

func (r *envReader) int(key string) int {
	n, err := config.GetInt(r.v, key)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	d, err := config.GetDuration(r.v, key, def)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	return d
}

// Load reads configuration from QUOTE_* environment variables and validates it.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("QUOTE")
	if err != nil {
		return nil, err
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *ServiceConfig {
	v.SetDefault("MAPS_BASE_URL", "https://maps.googleapis.com")
	v.SetDefault("PRICE_CURRENCY", "AUD")
	v.SetDefault("PRICE_BASE", 65.0)
	v.SetDefault("PRICE_PER_KM", 2.2)
	v.SetDefault("PRICE_PER_MIN", 0.0)
	v.SetDefault("PRICE_PER_PAX", 5.0)
	v.SetDefault("PRICE_PER_BAG", 2.0)
	v.SetDefault("AFTER_HOURS_START", "22:00")
	v.SetDefault("AFTER_HOURS_END", "05:00")
	v.SetDefault("AFTER_HOURS_RATE", 0.15)
	v.SetDefault("TIMEZONE", "Australia/Brisbane")
	v.SetDefault("AIRPORT_FEE", 10.0)
	v.SetDefault("AIRPORT_PATTERN", quote.DefaultAirportPattern)
	v.SetDefault("FALLBACK_AIRPORT_KM", 16.0)
	v.SetDefault("FALLBACK_MIN_KM", 5.0)
	v.SetDefault("FALLBACK_MAX_KM", 45.0)
	v.SetDefault("CACHE_BACKEND", BackendMemory)
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_BACKEND", BackendMemory)

	origins := config.GetList(v, "CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &envReader{v: v}
	db, err := config.LoadDatabaseConfig(v, "DB_NAME")
	if err != nil {
		r.errs = append(r.errs, err)
	}

	cfg := &ServiceConfig{
		Port:   config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv: config.GetAppEnv(v),
		APIKey: v.GetString("API_KEY"),
		Maps: MapsConfig{
			APIKey:  v.GetString("MAPS_API_KEY"),
			BaseURL: v.GetString("MAPS_BASE_URL"),
			Timeout: r.duration("MAPS_TIMEOUT", 6*time.Second),
		},
		Pricing: PricingConfig{
			Currency:        v.GetString("PRICE_CURRENCY"),
			Base:            r.float("PRICE_BASE"),
			PerKm:           r.float("PRICE_PER_KM"),
			PerMin:          r.float("PRICE_PER_MIN"),
			PerPax:          r.float("PRICE_PER_PAX"),
			PerBag:          r.float("PRICE_PER_BAG"),
			AfterHoursStart: v.GetString("AFTER_HOURS_START"),
			AfterHoursEnd:   v.GetString("AFTER_HOURS_END"),
			AfterHoursRate:  r.float("AFTER_HOURS_RATE"),
			Timezone:        v.GetString("TIMEZONE"),
			AirportFee:      r.float("AIRPORT_FEE"),
			AirportPattern:  v.GetString("AIRPORT_PATTERN"),
		},
		Fallback: FallbackConfig{
			AirportKm: r.float("FALLBACK_AIRPORT_KM"),
			MinKm:     r.float("FALLBACK_MIN_KM"),
			MaxKm:     r.float("FALLBACK_MAX_KM"),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTL:      r.duration("CACHE_TTL", 12*time.Hour),
			RedisURL: v.GetString("REDIS_URL"),
		},
		CORSOrigins: origins,
		RateLimit: RateLimitConfig{
			Window:  r.duration("RATE_LIMIT_WINDOW", time.Minute),
			Max:     r.int("RATE_LIMIT_MAX"),
			Backend: strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
		},
		DBConfig:    db,
		KafkaConfig: config.LoadKafkaConfig(v),
	}
	cfg.loadErrs = r.errs
	return cfg
}

// Validate reports every invalid setting at once.
func (c *ServiceConfig) Validate() error {
	errs := append([]error(nil), c.loadErrs...)

	p := c.Pricing
	for name, value := range map[string]float64{
		"PRICE_BASE":       p.Base,
		"PRICE_PER_KM":     p.PerKm,
		"PRICE_PER_MIN":    p.PerMin,
		"PRICE_PER_PAX":    p.PerPax,
		"PRICE_PER_BAG":    p.PerBag,
		"AFTER_HOURS_RATE": p.AfterHoursRate,
		"AIRPORT_FEE":      p.AirportFee,
	} {
		if value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if _, err := quote.ParseWindow(p.AfterHoursStart, p.AfterHoursEnd); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if _, err := quote.NewAirportMatcher(p.AirportPattern); err != nil {
		errs = append(errs, err)
	}

	f := c.Fallback
	if f.MinKm < 0 || f.AirportKm < 0 {
		errs = append(errs, errors.New("fallback distances must not be negative"))
	}
	if f.MinKm > f.MaxKm {
		errs = append(errs, errors.New("FALLBACK_MIN_KM must not exceed FALLBACK_MAX_KM"))
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendPostgres, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}

	switch c.RateLimit.Backend {
	case BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis rate limiter"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend))
	}
	if c.RateLimit.Backend != BackendNone && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

// Tariff builds the pricing tariff from the configured coefficients.
func (c *ServiceConfig) Tariff() (quote.Tariff, error) {
	p := c.Pricing
	window, err := quote.ParseWindow(p.AfterHoursStart, p.AfterHoursEnd)
	if err != nil {
		return quote.Tariff{}, err
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return quote.Tariff{}, fmt.Errorf("load timezone: %w", err)
	}
	airports, err := quote.NewAirportMatcher(p.AirportPattern)
	if err != nil {
		return quote.Tariff{}, err
	}

	return quote.Tariff{
		Currency:       p.Currency,
		Base:           p.Base,
		PerKm:          p.PerKm,
		PerMin:         p.PerMin,
		PerPax:         p.PerPax,
		PerBag:         p.PerBag,
		AfterHoursRate: p.AfterHoursRate,
		AfterHours:     window,
		AirportFee:     p.AirportFee,
		Location:       loc,
		Airports:       airports,
	}, nil
}

// FallbackEstimator builds the rough estimator, sharing the tariff's airport pattern.
func (c *ServiceConfig) FallbackEstimator() (quote.FallbackEstimator, error) {
	airports, err := quote.NewAirportMatcher(c.Pricing.AirportPattern)
	if err != nil {
		return quote.FallbackEstimator{}, err
	}
	return quote.FallbackEstimator{
		AirportKm: c.Fallback.AirportKm,
		MinKm:     c.Fallback.MinKm,
		MaxKm:     c.Fallback.MaxKm,
		Airports:  airports,
	}, nil
}
