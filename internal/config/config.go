package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	Query       Query
	USGSBaseURL string
	USGSTimeout time.Duration // 0 disables the client timeout

	DataFile         string
	ChartDir         string
	CountChartFile   string
	AverageChartFile string
	ChartLocation    *time.Location

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	PushgatewayURL  string

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox geocoding configuration.
	MapboxToken   string
	MapboxEnabled bool
	MapboxTimeout time.Duration
}

// Query holds the catalogue search parameters.
type Query struct {
	StartTime    string  `yaml:"start_time"`
	EndTime      string  `yaml:"end_time"`
	MinLatitude  float64 `yaml:"min_latitude"`
	MaxLatitude  float64 `yaml:"max_latitude"`
	MinLongitude float64 `yaml:"min_longitude"`
	MaxLongitude float64 `yaml:"max_longitude"`
	MinMagnitude float64 `yaml:"min_magnitude"`
	OrderBy      string  `yaml:"order_by"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	query, err := loadQuery()
	if err != nil {
		return nil, err
	}

	usgsTimeout, err := parseDuration("USGS_TIMEOUT", "0s", true)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("CHART_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_TIMEZONE %q: %w", tz, err)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		Query:       query,
		USGSBaseURL: sharedcfg.EnvOrDefault("USGS_BASE_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query.geojson"),
		USGSTimeout: usgsTimeout,

		DataFile:         sharedcfg.EnvOrDefault("DATA_FILE", "raw_earthquakes.json"),
		ChartDir:         sharedcfg.EnvOrDefault("CHART_DIR", "."),
		CountChartFile:   sharedcfg.EnvOrDefault("COUNT_CHART_FILE", "number_per_year.png"),
		AverageChartFile: sharedcfg.EnvOrDefault("AVERAGE_CHART_FILE", "average_magnitude_per_year.png"),
		ChartLocation:    loc,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-events"),

		MapboxToken:   mapboxToken,
		MapboxEnabled: mapboxEnabled,
		MapboxTimeout: mapboxTimeout,
	}

	if cfg.DataFile == "" {
		return nil, errors.New("DATA_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// loadQuery builds the catalogue query from defaults, then the optional
// USGS_QUERY_FILE, then individual USGS_* variables.
func loadQuery() (Query, error) {
	q := Query{
		StartTime:    "2000-01-01",
		EndTime:      "2018-10-11",
		MinLatitude:  50.008,
		MaxLatitude:  58.723,
		MinLongitude: -9.756,
		MaxLongitude: 1.67,
		MinMagnitude: 1,
		OrderBy:      "time-asc",
	}

	if path := os.Getenv("USGS_QUERY_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Query{}, fmt.Errorf("read USGS_QUERY_FILE: %w", err)
		}
		if err := yaml.Unmarshal(data, &q); err != nil {
			return Query{}, fmt.Errorf("parse USGS_QUERY_FILE: %w", err)
		}
	}

	q.StartTime = sharedcfg.EnvOrDefault("USGS_START_TIME", q.StartTime)
	q.EndTime = sharedcfg.EnvOrDefault("USGS_END_TIME", q.EndTime)
	q.OrderBy = sharedcfg.EnvOrDefault("USGS_ORDER_BY", q.OrderBy)

	floats := []struct {
		key string
		dst *float64
	}{
		{"USGS_MIN_LATITUDE", &q.MinLatitude},
		{"USGS_MAX_LATITUDE", &q.MaxLatitude},
		{"USGS_MIN_LONGITUDE", &q.MinLongitude},
		{"USGS_MAX_LONGITUDE", &q.MaxLongitude},
		{"USGS_MIN_MAGNITUDE", &q.MinMagnitude},
	}
	for _, f := range floats {
		s := os.Getenv(f.key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Query{}, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = v
	}

	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks the bounding box and time window.
func (q Query) Validate() error {
	if q.MinLatitude < -90 || q.MaxLatitude > 90 {
		return errors.New("USGS latitude bounds must be within [-90, 90]")
	}
	if q.MinLongitude < -180 || q.MaxLongitude > 180 {
		return errors.New("USGS longitude bounds must be within [-180, 180]")
	}
	if q.MinLatitude > q.MaxLatitude {
		return errors.New("USGS_MIN_LATITUDE must not exceed USGS_MAX_LATITUDE")
	}
	if q.MinLongitude > q.MaxLongitude {
		return errors.New("USGS_MIN_LONGITUDE must not exceed USGS_MAX_LONGITUDE")
	}
	if q.StartTime == "" || q.EndTime == "" {
		return errors.New("USGS_START_TIME and USGS_END_TIME are required")
	}
	return nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
