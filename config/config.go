package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Version      string `mapstructure:"version"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
		CorsOrigins []string      `mapstructure:"corsOrigins"`
	} `mapstructure:"server"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Geocoder      GeocoderConfig      `mapstructure:"geocoder"`
	Route         RouteConfig         `mapstructure:"route"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// LLMConfig selects and configures the completion backend.
// Provider is one of "openrouter", "perplexity" or "gemini".
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	BaseURL      string        `mapstructure:"baseURL"`
	APIKey       string        `mapstructure:"apiKey"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"maxTokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"systemPrompt"`
	Referer      string        `mapstructure:"referer"`
	Title        string        `mapstructure:"title"`
	DomainFilter []string      `mapstructure:"domainFilter"`
}

type GeocoderConfig struct {
	BaseURL       string        `mapstructure:"baseURL"`
	SuggestURL    string        `mapstructure:"suggestURL"`
	APIKey        string        `mapstructure:"apiKey"`
	SuggestAPIKey string        `mapstructure:"suggestApiKey"`
	MapsAPIKey    string        `mapstructure:"mapsApiKey"`
	CityPrefix    string        `mapstructure:"cityPrefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheSize     int           `mapstructure:"cacheSize"`
}

type RouteConfig struct {
	DefaultVisitMinutes int     `mapstructure:"defaultVisitMinutes"`
	DefaultDistanceKm   float64 `mapstructure:"defaultDistanceKm"`
	MapZoom             int     `mapstructure:"mapZoom"`
	FallbackEnabled     bool    `mapstructure:"fallbackEnabled"`
	FallbackRadiusKm    float64 `mapstructure:"fallbackRadiusKm"`
	FallbackMaxPlaces   int     `mapstructure:"fallbackMaxPlaces"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

type ObservabilityConfig struct {
	ServiceName string `mapstructure:"serviceName"`
	MetricsPort string `mapstructure:"metricsPort"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment: LLM_APIKEY, GEOCODER_APIKEY, REPOSITORIES_POSTGRES_PASSWORD...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	config.applyDefaults()
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// applyDefaults fills values the route pipeline cannot run without.
func (c *Config) applyDefaults() {
	if c.Route.DefaultVisitMinutes <= 0 {
		c.Route.DefaultVisitMinutes = 30
	}
	if c.Route.MapZoom == 0 {
		c.Route.MapZoom = 13
	}
	if c.Route.FallbackMaxPlaces <= 0 {
		c.Route.FallbackMaxPlaces = 4
	}
	if c.Route.FallbackRadiusKm <= 0 {
		c.Route.FallbackRadiusKm = 20
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.Geocoder.Timeout <= 0 {
		c.Geocoder.Timeout = 10 * time.Second
	}
	if c.Catalog.CacheTTL <= 0 {
		c.Catalog.CacheTTL = 5 * time.Minute
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 90 * time.Second
	}
}
