package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ParkingConfig struct {
	Env string `yaml:"env" env-default:"local"`
	ParkingDB     `yaml:"parking_db"`
	KafkaService  `yaml:"kafka-service"`
	BotService    `yaml:"bot-service"`
	StripeService `yaml:"stripe-service"`
	MetricsServer `yaml:"metrics_server"`
	Facility      `yaml:"facility"`
	Sweep         `yaml:"sweep"`
	LogConfig     `yaml:"log_config"`
}

type ParkingDB struct {
	Dsn           string `yaml:"dsn"`
	MigrationPath string `yaml:"migration_path"`
}

type KafkaService struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	GroupID string `yaml:"group_id" env-default:"parking-core"`
}

type BotService struct {
	BaseURL string `yaml:"base_url"`
	Secret  string `yaml:"secret" env:"APP_SECRET"`
}

type StripeService struct {
	SecretKey string `yaml:"secret_key" env:"STRIPE_SECRET"`
	BaseURL   string `yaml:"base_url"`
}

type MetricsServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Facility struct {
	Timezone string        `yaml:"timezone" env-default:"Asia/Bangkok"`
	RateTTL  time.Duration `yaml:"rate_ttl" env-default:"1h"`
}

type Sweep struct {
	WarningTime     string `yaml:"warning_time" env-default:"20:00"`
	RecalculateTime string `yaml:"recalculate_time" env-default:"05:00"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

func MustLoad() *ParkingConfig {

	// Processing env config variable and file
	configPath := os.Getenv("PARKING_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PARKING_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ParkingConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
