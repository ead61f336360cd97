package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB          DBConfig
	Server      ServerConfig
	Seeder      SeederConfig
	Weather     WeatherConfig
	Suggest     SuggestConfig
	Geolocation GeolocationConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// SuggestSource selects where city suggestions come from
type SuggestSource string

const (
	SuggestSourceStatic   SuggestSource = "static"
	SuggestSourceGeocoder SuggestSource = "geocoder"
	SuggestSourceCatalog  SuggestSource = "catalog"
)

// DBConfig holds database configuration for the city catalog
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SeederConfig holds settings for catalog import
type SeederConfig struct {
	DataDir       string
	BatchSize     int
	MinPopulation int
}

// WeatherConfig holds OpenWeatherMap endpoint settings
type WeatherConfig struct {
	APIKey      string
	WeatherURL  string
	GeoURL      string
	IconURL     string
	Units       string
	HTTPTimeout time.Duration
}

// SuggestConfig holds suggestion engine settings
type SuggestConfig struct {
	Source SuggestSource
}

// GeolocationConfig holds the server-side default position.
// HasDefault is false when DEFAULT_LAT/DEFAULT_LON are unset or invalid.
type GeolocationConfig struct {
	Timeout    time.Duration
	HasDefault bool
	Lat        float64
	Lon        float64
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		if c.Name != "" && c.Name != "geocity" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", c.Name)
		}
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// MigrationsPath returns the golang-migrate source URL for this database type
func (c DBConfig) MigrationsPath(root string) string {
	if c.IsMemory() {
		return "file://" + root + "/sqlite"
	}
	return "file://" + root + "/postgres"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	source := SuggestSource(getEnv("SUGGEST_SOURCE", string(SuggestSourceStatic)))
	switch source {
	case SuggestSourceStatic, SuggestSourceGeocoder, SuggestSourceCatalog:
	default:
		return nil, fmt.Errorf("unknown SUGGEST_SOURCE %q", source)
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "geocity"),
			Password: getEnv("DB_PASSWORD", "geocity_password"),
			Name:     getEnv("DB_NAME", "geocity"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Seeder: SeederConfig{
			DataDir:       getEnv("SEEDER_DATA_DIR", "data"),
			BatchSize:     getEnvAsInt("SEEDER_BATCH_SIZE", 10000),
			MinPopulation: getEnvAsInt("SEEDER_MIN_POPULATION", 10000),
		},
		Weather: WeatherConfig{
			APIKey:      os.Getenv("OWM_API_KEY"),
			WeatherURL:  getEnv("OWM_WEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
			GeoURL:      getEnv("OWM_GEO_URL", "https://api.openweathermap.org/geo/1.0/direct"),
			IconURL:     getEnv("OWM_ICON_URL", "https://openweathermap.org/img/wn/%s@2x.png"),
			Units:       getEnv("OWM_UNITS", "metric"),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),
		},
		Suggest: SuggestConfig{
			Source: source,
		},
		Geolocation: GeolocationConfig{
			Timeout: getEnvAsDuration("GEOLOCATION_TIMEOUT", 10*time.Second),
		},
	}

	lat, latErr := strconv.ParseFloat(os.Getenv("DEFAULT_LAT"), 64)
	lon, lonErr := strconv.ParseFloat(os.Getenv("DEFAULT_LON"), 64)
	if latErr == nil && lonErr == nil && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
		config.Geolocation.HasDefault = true
		config.Geolocation.Lat = lat
		config.Geolocation.Lon = lon
	}

	if source == SuggestSourceGeocoder && config.Weather.APIKey == "" {
		return nil, fmt.Errorf("SUGGEST_SOURCE=geocoder requires OWM_API_KEY")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or plain seconds ("15")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
