package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"ulascansenturk/weather-lookup/internal/providers"
)

type Config struct {
	ServiceName   string
	ServerAddress string

	DBName     string
	DBPassword string
	DBUser     string
	DBPort     string
	DBHost     string

	Env         string
	LogLevel    string
	HTTPTimeout int32

	APIKey string
	Units  string

	GeocodeURL   string
	WeatherURL   string
	RadarURL     string
	RadarZoom    int
	RadarOverlay string

	CacheTTL     time.Duration
	RedisAddress string

	BreakerEnabled  bool
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "weather-lookup")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:3000")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("HTTP_TIMEOUT", 10)
	v.SetDefault("UNITS", string(providers.UnitsImperial))
	v.SetDefault("GEOCODE_URL", providers.DefaultGeocodeURL)
	v.SetDefault("WEATHER_URL", providers.DefaultWeatherURL)
	v.SetDefault("RADAR_URL", providers.DefaultRadarURL)
	v.SetDefault("RADAR_ZOOM", providers.DefaultRadarZoom)
	v.SetDefault("RADAR_OVERLAY", providers.DefaultRadarOverlay)
	v.SetDefault("CACHE_TTL", 0)
	v.SetDefault("BREAKER_ENABLED", false)
	v.SetDefault("BREAKER_FAILURES", 5)
	v.SetDefault("BREAKER_TIMEOUT", 30*time.Second)

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	config := &Config{
		ServiceName:     v.GetString("SERVICE_NAME"),
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		DBName:          v.GetString("DATABASE_NAME"),
		DBPassword:      v.GetString("DATABASE_PASSWORD"),
		DBUser:          v.GetString("DATABASE_USER"),
		DBPort:          v.GetString("DATABASE_PORT"),
		DBHost:          v.GetString("DATABASE_HOST"),
		Env:             v.GetString("ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPTimeout:     v.GetInt32("HTTP_TIMEOUT"),
		APIKey:          v.GetString("API_KEY"),
		Units:           v.GetString("UNITS"),
		GeocodeURL:      v.GetString("GEOCODE_URL"),
		WeatherURL:      v.GetString("WEATHER_URL"),
		RadarURL:        v.GetString("RADAR_URL"),
		RadarZoom:       v.GetInt("RADAR_ZOOM"),
		RadarOverlay:    v.GetString("RADAR_OVERLAY"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		RedisAddress:    v.GetString("REDIS_ADDRESS"),
		BreakerEnabled:  v.GetBool("BREAKER_ENABLED"),
		BreakerFailures: v.GetUint32("BREAKER_FAILURES"),
		BreakerTimeout:  v.GetDuration("BREAKER_TIMEOUT"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate fails fast on settings the providers cannot run without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API_KEY is not set", providers.ErrConfiguration)
	}

	if _, err := providers.ParseUnits(c.Units); err != nil {
		return err
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: HTTP_TIMEOUT must be positive, got %d", providers.ErrConfiguration, c.HTTPTimeout)
	}

	return nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// HistoryEnabled reports whether a database is configured for lookup history.
func (c *Config) HistoryEnabled() bool {
	return c.DBHost != ""
}

// ProviderOptions maps the config onto the provider settings.
func (c *Config) ProviderOptions() providers.Options {
	units, _ := providers.ParseUnits(c.Units)

	return providers.Options{
		APIKey:       c.APIKey,
		Units:        units,
		Timeout:      c.HTTPTimeoutDuration(),
		GeocodeURL:   c.GeocodeURL,
		WeatherURL:   c.WeatherURL,
		RadarURL:     c.RadarURL,
		RadarZoom:    c.RadarZoom,
		RadarOverlay: c.RadarOverlay,
	}
}
