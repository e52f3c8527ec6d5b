package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Journal  JournalConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	Mode            string // gin mode: debug, release, test
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// QueueDriver 帳本異動隊列實作
type QueueDriver string

const (
	QueueDriverMemory QueueDriver = "memory"
	QueueDriverRedis  QueueDriver = "redis"
)

type JournalConfig struct {
	// Enabled 為 true 時寫入 Postgres journal，並在啟動時重播
	Enabled    bool
	Queue      QueueDriver
	BufferSize int
	ConsumerID string
	// Projection 為 true 時把異動投影到 Redis 供外部讀取
	Projection bool
}

type LogConfig struct {
	Level string
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Journal:  GetJournalConfig(),
		Log:      LogConfig{Level: getEnv("LOG_LEVEL", "info")},
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "0", Mode: "test", ShutdownTimeout: time.Second},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Journal:  JournalConfig{Queue: QueueDriverMemory, BufferSize: 16},
		Log:      LogConfig{Level: "debug"},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnv("PORT", "8080"),
		Mode:            getEnv("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
		MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func GetJournalConfig() JournalConfig {
	return JournalConfig{
		Enabled:    getEnvBool("JOURNAL_ENABLED", false),
		Queue:      QueueDriver(getEnv("JOURNAL_QUEUE", string(QueueDriverMemory))),
		BufferSize: getEnvInt("JOURNAL_BUFFER_SIZE", 1024),
		ConsumerID: getEnv("JOURNAL_CONSUMER_ID", ""),
		Projection: getEnvBool("JOURNAL_PROJECTION", false),
	}
}

// NeedsRedis 是否需要連線 Redis
func (c JournalConfig) NeedsRedis() bool {
	return c.Queue == QueueDriverRedis || c.Projection
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		panic(err)
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		panic(err)
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		panic(err)
	}
	return d
}
