// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// StorePath is the path of the local sqlite file holding the auth token and the report archive.
	StorePath string `mapstructure:"STORE_PATH"`
	// DefaultLat/DefaultLon form the fallback map center used until the device position resolves
	// (Obelisco, Buenos Aires).
	DefaultLat float64 `mapstructure:"DEFAULT_LAT"`
	DefaultLon float64 `mapstructure:"DEFAULT_LON"`
	// MapZoom is the zoom level for the main map screen.
	MapZoom int `mapstructure:"MAP_ZOOM"`
	// PickerZoom is the zoom level for the create-report location picker.
	PickerZoom int `mapstructure:"PICKER_ZOOM"`
	// GeoHighAccuracy requests a high-accuracy device fix.
	GeoHighAccuracy bool `mapstructure:"GEO_HIGH_ACCURACY"`
	// GeoTimeout is the device geolocation timeout (e.g. "5s").
	GeoTimeout string `mapstructure:"GEO_TIMEOUT"`
	// GeoMaxAge is the maximum acceptable age of a cached fix (e.g. "0s").
	GeoMaxAge string `mapstructure:"GEO_MAX_AGE"`
	// SubmitDelay is the artificial delay of the stub submission collaborator (e.g. "1500ms").
	SubmitDelay string `mapstructure:"SUBMIT_DELAY"`
	// ResolveDelay is the artificial delay of the stub address resolver (e.g. "1s").
	ResolveDelay string `mapstructure:"RESOLVE_DELAY"`
	// TokenSecret signs the HS256 session token issued on login.
	TokenSecret string `mapstructure:"TOKEN_SECRET"`
	// TokenIssuer is the iss claim of issued session tokens.
	TokenIssuer string `mapstructure:"TOKEN_ISSUER"`
	// TokenTTL is the session token lifetime (e.g. "720h").
	TokenTTL string `mapstructure:"TOKEN_TTL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("STORE_PATH", "altanto.db")
	v.SetDefault("DEFAULT_LAT", -34.6037)
	v.SetDefault("DEFAULT_LON", -58.3816)
	v.SetDefault("MAP_ZOOM", 15)
	v.SetDefault("PICKER_ZOOM", 16)
	v.SetDefault("GEO_HIGH_ACCURACY", true)
	v.SetDefault("GEO_TIMEOUT", "5s")
	v.SetDefault("GEO_MAX_AGE", "0s")
	v.SetDefault("SUBMIT_DELAY", "1500ms")
	v.SetDefault("RESOLVE_DELAY", "1s")
	v.SetDefault("TOKEN_SECRET", "dev-secret")
	v.SetDefault("TOKEN_ISSUER", "altanto-auth")
	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.StorePath == "" {
		return nil, errors.New("config: STORE_PATH must be set")
	}
	if cfg.DefaultLat < -90 || cfg.DefaultLat > 90 {
		return nil, errors.New("config: DEFAULT_LAT must be within [-90, 90]")
	}
	if cfg.DefaultLon < -180 || cfg.DefaultLon > 180 {
		return nil, errors.New("config: DEFAULT_LON must be within [-180, 180]")
	}
	if cfg.MapZoom <= 0 || cfg.PickerZoom <= 0 {
		return nil, errors.New("config: MAP_ZOOM and PICKER_ZOOM must be positive")
	}
	if cfg.TokenSecret == "dev-secret" && cfg.Env == "production" {
		return nil, errors.New("config: TOKEN_SECRET must be set when APP_ENV=production")
	}

	return &cfg, nil
}

// GeoTimeoutDuration parses GeoTimeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) GeoTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.GeoTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GeoMaxAgeDuration parses GeoMaxAge as a time.Duration. Returns 0 if unset or invalid.
func (c *Config) GeoMaxAgeDuration() time.Duration {
	d, err := time.ParseDuration(c.GeoMaxAge)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SubmitDelayDuration parses SubmitDelay as a time.Duration. Returns 1500ms if unset or invalid.
func (c *Config) SubmitDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.SubmitDelay)
	if err != nil || d < 0 {
		return 1500 * time.Millisecond
	}
	return d
}

// ResolveDelayDuration parses ResolveDelay as a time.Duration. Returns 1s if unset or invalid.
func (c *Config) ResolveDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ResolveDelay)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// TokenTTLDuration parses TokenTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) TokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}
