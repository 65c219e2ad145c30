package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "FORECAST_CONFIG_PATH"

type ForecastServiceConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	ForecastDB   `yaml:"forecast_db"`
	Migrations   `yaml:"migrations"`
	KafkaService `yaml:"kafka-service"`
	Redis        `yaml:"redis"`
	LogConfig    `yaml:"log_config"`
	Tracing      `yaml:"tracing"`
	Scheduler    `yaml:"scheduler"`
	Forecast     ForecastDefaults `yaml:"forecast"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

type ForecastDB struct {
	Dsn string `yaml:"dsn" env:"FORECAST_DB_DSN"`
}

type Migrations struct {
	Enabled bool   `yaml:"enabled" env-default:"true"`
	Path    string `yaml:"path" env-default:"migrations"`
}

type KafkaService struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	GroupID string   `yaml:"group_id" env-default:"payout-forecast"`
	Enabled bool     `yaml:"enabled" env-default:"true"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl" env-default:"2m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type Tracing struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" env-default:"1"`
}

type Scheduler struct {
	Enabled bool `yaml:"enabled" env-default:"true"`
	// RunAt is the UTC time of day of the nightly regeneration, "HH:MM".
	RunAt   string        `yaml:"run_at" env-default:"02:00"`
	Workers int           `yaml:"workers" env-default:"4"`
	Timeout time.Duration `yaml:"timeout" env-default:"30m"`
}

// ForecastDefaults are engine-wide knobs. They can be changed at runtime by
// editing the config file; see Watch.
type ForecastDefaults struct {
	HorizonDays      int     `yaml:"horizon_days" env-default:"90"`
	LookbackDays     int     `yaml:"lookback_days" env-default:"180"`
	TrailingPayouts  int     `yaml:"trailing_payouts" env-default:"30"`
	MinPayouts       int     `yaml:"min_payouts" env-default:"3"`
	TrendWindowDays  int     `yaml:"trend_window_days" env-default:"30"`
	ConfidenceFactor float64 `yaml:"confidence_factor" env-default:"1"`
	AccuracyWindow   int     `yaml:"accuracy_window" env-default:"30"`
}

// Validate rejects defaults the engine cannot run with.
func (d ForecastDefaults) Validate() error {
	switch {
	case d.HorizonDays <= 0:
		return fmt.Errorf("forecast.horizon_days must be positive, got %d", d.HorizonDays)
	case d.LookbackDays <= 0:
		return fmt.Errorf("forecast.lookback_days must be positive, got %d", d.LookbackDays)
	case d.MinPayouts <= 0:
		return fmt.Errorf("forecast.min_payouts must be positive, got %d", d.MinPayouts)
	case d.TrailingPayouts < d.MinPayouts:
		return fmt.Errorf("forecast.trailing_payouts (%d) is below min_payouts (%d)", d.TrailingPayouts, d.MinPayouts)
	case d.ConfidenceFactor < 0:
		return fmt.Errorf("forecast.confidence_factor must not be negative")
	}
	return nil
}

// Load reads the YAML file at path and overlays environment variables.
func Load(path string) (*ForecastServiceConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	var cfg ForecastServiceConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Forecast.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the config file path from FORECAST_CONFIG_PATH.
func Path() string {
	return os.Getenv(configPathEnv)
}

func MustLoad() *ForecastServiceConfig {
	configPath := Path()
	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
