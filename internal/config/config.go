// Package config предоставляет структуры и функции загрузки конфигурации.
//
// Конфигурация читается из YAML-файла CONFIG_PATH (если задан), затем
// переопределяется переменными окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// insecureDefaultSecret: секрет, который раньше подставлялся по умолчанию.
const insecureDefaultSecret = "secret"

var (
	// ErrMissingSecret: не задан секрет подписи JWT.
	ErrMissingSecret = errors.New("jwt secret key is not set")
	// ErrInsecureSecret: задан заведомо известный секрет.
	ErrInsecureSecret = errors.New("jwt secret key must not be the default value")
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL" env-required:"true"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:"0.0.0.0:3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой AddressRedis отключает кеш.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RabbitMQ структура для публикации событий аккаунтов.
// Пустой AMQPURL отключает публикацию.
type RabbitMQ struct {
	AMQPURL        string        `yaml:"amqp_url" env:"AMQP_URL"`
	Exchange       string        `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"accounts"`
	ConnectRetries int           `yaml:"connect_retries" env:"AMQP_CONNECT_RETRIES" env-default:"5"`
	RetryDelay     time.Duration `yaml:"retry_delay" env:"AMQP_RETRY_DELAY" env-default:"2s"`
}

// RateLimit настраивает лимитер для /auth маршрутов, отдельный на каждый IP клиента.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"AUTH_RATE_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"AUTH_RATE_BURST" env-default:"10"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
}

// Load читает конфигурацию и проверяет обязательные параметры.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию или завершает процесс.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет секрет подписи: без него сервис не стартует.
func (c *Config) Validate() error {
	switch c.JWTSecretKey {
	case "":
		return ErrMissingSecret
	case insecureDefaultSecret:
		return ErrInsecureSecret
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: [redacted]\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.DB,
		c.AMQPURL != "",
		c.Exchange,
		c.RPS,
		c.Burst,
	)
}
