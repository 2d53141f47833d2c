package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Job board access
	Source        string // jobspy | indeed
	JobSpyURL     string
	JobSpyAPIKey  string
	JobSpySites   []string
	CountryHint   string
	ChromeBin     string
	BrowserWaitMs int

	// Pacing between fetch jobs
	PaceMode  string // fixed | rate
	PaceDelay time.Duration

	// Config store
	Store         string // github | postgres | sqlite | file
	GitHubOwner   string
	GitHubRepo    string
	GitHubPath    string
	GitHubBranch  string
	GitHubToken   string
	GitHubAPIURL  string
	GitHubRawURL  string
	StoreDocument string
	SQLitePath    string
	ConfigFile    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	// Output
	OutputDir      string
	RawCSVDir      string
	ArchiveResults bool
	LogLevel       string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Source:        getEnv("JOB_SOURCE", "jobspy"),
		JobSpyURL:     getEnv("JOBSPY_URL", "http://localhost:8000"),
		JobSpyAPIKey:  getEnv("JOBSPY_API_KEY", ""),
		JobSpySites:   getEnvList("JOBSPY_SITES", []string{"indeed", "linkedin", "zip_recruiter", "glassdoor"}),
		CountryHint:   getEnv("COUNTRY_HINT", "USA"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		BrowserWaitMs: getEnvInt("BROWSER_WAIT_MS", 4000),

		PaceMode:  getEnv("PACE_MODE", "fixed"),
		PaceDelay: time.Duration(getEnvInt("PACE_DELAY_MS", 5000)) * time.Millisecond,

		Store:         getEnv("CONFIG_STORE", "github"),
		GitHubOwner:   getEnv("GITHUB_OWNER", ""),
		GitHubRepo:    getEnv("GITHUB_REPO", ""),
		GitHubPath:    getEnv("GITHUB_PATH", "db.json"),
		GitHubBranch:  getEnv("GITHUB_BRANCH", "main"),
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:  getEnv("GITHUB_API_URL", "https://api.github.com"),
		GitHubRawURL:  getEnv("GITHUB_RAW_URL", "https://raw.githubusercontent.com"),
		StoreDocument: getEnv("STORE_DOCUMENT", "search"),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/jobs.db"),
		ConfigFile:    getEnv("CONFIG_FILE", "./data/search.yml"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "jobs"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "jobs123"),
		PostgresDB:       getEnv("POSTGRES_DB", "jobs_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		OutputDir:      getEnv("OUTPUT_DIR", "."),
		RawCSVDir:      getEnv("RAW_CSV_DIR", ""),
		ArchiveResults: getEnvBool("ARCHIVE_RESULTS", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return ParseList(val)
}
