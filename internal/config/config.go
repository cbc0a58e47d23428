package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

func (a *AppConfig) PortString() string { return fmt.Sprintf("%d", a.Port) }

type MongoConfig struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

type PostgresConfig struct {
	URI string `mapstructure:"uri"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type PersistConfig struct {
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Persist  PersistConfig  `mapstructure:"persist"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// derived
	WriteTimeout time.Duration
}

// Load reads config.yaml when present and applies environment overrides.
// The two store connection strings come from MONGODB_URI and POSTGRES_URI,
// read once at process start.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "production")
	v.SetDefault("app.port", 3000)
	v.SetDefault("mongo.db", "chat_app")
	v.SetDefault("kafka.topic", "chat.events")
	v.SetDefault("persist.write_timeout_seconds", 5)
	v.SetDefault("redis.prefix", "chat")
	v.SetDefault("metrics.addr", ":9100")

	v.AutomaticEnv()
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "PORT")
	_ = v.BindEnv("mongo.uri", "MONGODB_URI")
	_ = v.BindEnv("mongo.db", "MONGO_DB")
	_ = v.BindEnv("postgres.uri", "POSTGRES_URI")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	_ = v.BindEnv("metrics.addr", "METRICS_ADDR")

	if _, err := os.Stat("config.yaml"); err == nil {
		v.SetConfigFile("config.yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.WriteTimeout = time.Duration(cfg.Persist.WriteTimeoutSeconds) * time.Second
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.App.Port == 0 {
		return errors.New("app.port missing or invalid")
	}
	if cfg.Mongo.URI == "" {
		return errors.New("mongo.uri missing (set MONGODB_URI)")
	}
	if cfg.Mongo.DB == "" {
		return errors.New("mongo.db missing")
	}
	if cfg.Postgres.URI == "" {
		return errors.New("postgres.uri missing (set POSTGRES_URI)")
	}
	if cfg.Persist.WriteTimeoutSeconds <= 0 {
		return errors.New("persist.write_timeout_seconds must be positive")
	}
	return nil
}
