package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Judge0BaseURL      string
	Judge0APIKey       string
	Judge0PollAttempts int
	Judge0PollDelayMs  int
	Judge0TimeoutSec   int

	OpenAIAPIKey       string
	OpenAIModel        string
	AnalyzerMaxRetries int

	ProblemCacheTTLSeconds int
	ProfileUpdateRetries   int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:    getEnv("API_PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "algomentor_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		Judge0BaseURL:      getEnv("JUDGE0_BASE_URL", "http://localhost:2358"),
		Judge0APIKey:       getEnv("JUDGE0_API_KEY", ""),
		Judge0PollAttempts: getEnvAsInt("JUDGE0_POLL_ATTEMPTS", 20),
		Judge0PollDelayMs:  getEnvAsInt("JUDGE0_POLL_DELAY_MS", 500),
		Judge0TimeoutSec:   getEnvAsInt("JUDGE0_TIMEOUT_SEC", 15),

		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnalyzerMaxRetries: getEnvAsInt("ANALYZER_MAX_RETRIES", 3),

		ProblemCacheTTLSeconds: getEnvAsInt("PROBLEM_CACHE_TTL_SECONDS", 300),
		ProfileUpdateRetries:   getEnvAsInt("PROFILE_UPDATE_RETRIES", 3),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
