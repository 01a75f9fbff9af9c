package types

import "time"

// HTTPConfig holds shared HTTP settings used for provider requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request (token and search).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with provider requests
	// (e.g. "pinmap/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// YelpConfig holds settings for the Yelp credential exchange and search.
type YelpConfig struct {
	HTTPConfig `yaml:",inline"`

	Credentials `yaml:",inline"`

	// APIHost is the provider base URL (default https://api.yelp.com).
	APIHost string `json:"api_host" yaml:"api_host"`

	// MaxRetries is the number of extra attempts on HTTP 429. Zero keeps
	// the single-attempt contract.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MapConfig is the static display configuration handed to the map page.
type MapConfig struct {
	GoogleAPIKey string  `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	CenterLat    float64 `json:"center_lat" yaml:"center_lat"`
	CenterLng    float64 `json:"center_lng" yaml:"center_lng"`
	Zoom         int     `json:"zoom" yaml:"zoom"`
}

// ServerConfig holds settings for the web server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`

	// DefaultLocation is used when a request does not name a location.
	DefaultLocation string `json:"default_location" yaml:"default_location"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format"`
}

// AppConfig groups all configuration for the pinmap binary.
type AppConfig struct {
	Yelp   YelpConfig   `json:"yelp" yaml:"yelp"`
	Map    MapConfig    `json:"map" yaml:"map"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
