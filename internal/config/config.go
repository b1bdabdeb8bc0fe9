// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается один раз при старте процесса (YAML по пути из CONFIG_PATH,
// переменные окружения перекрывают значения из файла) и дальше передаётся
// в компоненты по указателю. Глобального состояния пакет не хранит.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, от которых зависит формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DB_URL" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Password                `yaml:"password"`
	Cookie                  `yaml:"cookie"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Cloudinary              `yaml:"cloudinary"`
	Upload                  `yaml:"upload"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8001"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	CORSOrigin  string        `yaml:"cors_origin" env:"CORS_ORIGIN" env-default:"http://localhost:5173"`
	// часовой пояс клуба для выборок "сегодня" и по месяцам
	Timezone string `yaml:"timezone" env:"CLUB_TIMEZONE" env-default:"Local"`
}

// JWTToken структура для работы с jwt-токеном.
//
// Время жизни пользовательского и админского токена задаётся отдельно.
type JWTToken struct {
	JWTSecretKey  string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	UserTokenTTL  time.Duration `yaml:"user_token_ttl" env-default:"15m"`
	AdminTokenTTL time.Duration `yaml:"admin_token_ttl" env-default:"8h"`
}

// Password параметры argon2id.
type Password struct {
	Time      uint32 `yaml:"time" env-default:"2"`
	MemoryKiB uint32 `yaml:"memory_kib" env-default:"19456"`
	Threads   uint8  `yaml:"threads" env-default:"1"`
	KeyLen    uint32 `yaml:"key_len" env-default:"32"`
	SaltLen   uint32 `yaml:"salt_len" env-default:"16"`
}

// Cookie настройки сессионных cookie.
type Cookie struct {
	Secure bool   `yaml:"secure" env:"COOKIE_SECURE" env-default:"false"`
	Domain string `yaml:"domain" env:"COOKIE_DOMAIN"`
}

// RedisConnection структура для настройки подключения к redis.
//
// Пустой адрес означает, что лимиты считаются в памяти процесса.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ настройки очереди удаления постеров.
//
// Пустой URL означает in-process очередь.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
	Workers    int           `yaml:"workers" env-default:"4"`
}

// Cloudinary учётные данные внешнего хостинга изображений.
type Cloudinary struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
}

// Enabled сообщает, заданы ли все учётные данные Cloudinary.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Upload ограничения на загружаемые файлы.
type Upload struct {
	MaxFileSize   int64  `yaml:"max_file_size" env-default:"5242880"`
	MaxFiles      int    `yaml:"max_files" env-default:"10"`
	PublicBaseURL string `yaml:"public_base_url" env:"PUBLIC_BASE_URL" env-default:"http://localhost:8001"`
	CleanupBuffer int    `yaml:"cleanup_buffer" env-default:"64"`
}

// RateLimit лимиты запросов на минуту с одного IP.
type RateLimit struct {
	AuthPerMinute  int `yaml:"auth_per_minute" env-default:"30"`
	AdminPerMinute int `yaml:"admin_per_minute" env-default:"10"`
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if configPath == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("%s: timezone %q: %w", op, cfg.Timezone, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  UserTokenTTL: %s\n"+
			"  AdminTokenTTL: %s\n"+
			"Redis: %s\n"+
			"RabbitMQ: %s\n"+
			"Cloudinary: %s\n",
		c.Env,
		redact(c.StorageConnectionString),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		redact(c.JWTSecretKey),
		c.UserTokenTTL,
		c.AdminTokenTTL,
		c.AddressRedis,
		redact(c.RabbitMQ.URL),
		c.CloudName,
	)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
