package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Mekari   MekariConfig
	Payroll  PayrollConfig
	Fetch    FetchConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins string // comma separated
}

// MekariConfig holds credentials for the Mekari/Talenta attendance API
type MekariConfig struct {
	BaseURL          string
	SummaryEndpoint  string
	EmployeeEndpoint string
	Username         string
	Secret           string
	PageLimit        int
}

// PayrollConfig holds the wage table used by the daily payroll calculator.
// Defaults follow the documented rate sheet; override via env when rates change.
type PayrollConfig struct {
	MonthlyUnder1Y         int
	TenureAllowance        int
	PresencePremiumMonthly int
	WorkDaysPerMonth       int
	MonthlyHoursDivisor    int
	BPJSTK                 int
	BPJSKes                int
}

// MonthlyGE1Y is the >= 1 year monthly wage (base wage plus tenure allowance).
func (p PayrollConfig) MonthlyGE1Y() int {
	return p.MonthlyUnder1Y + p.TenureAllowance
}

// FetchConfig controls the scheduled attendance pull
type FetchConfig struct {
	Enabled         bool
	Interval        time.Duration
	DefaultBranchID int64
}

func Load() (*Config, error) {
	// .env is optional; real deployments use actual env vars
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Jakarta"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}

	// Mekari API configuration
	pageLimit, err := strconv.Atoi(getEnv("MEKARI_PAGE_LIMIT", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEKARI_PAGE_LIMIT: %w", err)
	}

	config.Mekari = MekariConfig{
		BaseURL:          getEnv("MEKARI_BASE_URL", "https://api.mekari.com"),
		SummaryEndpoint:  getEnv("MEKARI_SUMMARY_ENDPOINT", "/v2/talenta/v3/attendance/summary-report"),
		EmployeeEndpoint: getEnv("MEKARI_EMPLOYEE_ENDPOINT", "/v2/talenta/v2/employee"),
		Username:         getEnv("MEKARI_USERNAME", ""),
		Secret:           getEnv("MEKARI_SECRET", ""),
		PageLimit:        pageLimit,
	}

	// Payroll rate table
	payroll := PayrollConfig{}
	if payroll.MonthlyUnder1Y, err = getEnvInt("PAYROLL_MONTHLY_UNDER_1Y", 4_870_511); err != nil {
		return nil, err
	}
	if payroll.TenureAllowance, err = getEnvInt("PAYROLL_TENURE_ALLOWANCE", 25_000); err != nil {
		return nil, err
	}
	if payroll.PresencePremiumMonthly, err = getEnvInt("PAYROLL_PRESENCE_PREMIUM_MONTHLY", 100_000); err != nil {
		return nil, err
	}
	if payroll.WorkDaysPerMonth, err = getEnvInt("PAYROLL_WORK_DAYS_PER_MONTH", 25); err != nil {
		return nil, err
	}
	if payroll.MonthlyHoursDivisor, err = getEnvInt("PAYROLL_MONTHLY_HOURS_DIVISOR", 173); err != nil {
		return nil, err
	}
	if payroll.BPJSTK, err = getEnvInt("PAYROLL_BPJS_TK", 146_115); err != nil {
		return nil, err
	}
	if payroll.BPJSKes, err = getEnvInt("PAYROLL_BPJS_KES", 48_705); err != nil {
		return nil, err
	}
	config.Payroll = payroll

	// Scheduled fetch configuration
	fetchInterval, err := time.ParseDuration(getEnv("FETCH_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	branchID, err := strconv.ParseInt(getEnv("FETCH_DEFAULT_BRANCH_ID", "21089"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_DEFAULT_BRANCH_ID: %w", err)
	}

	config.Fetch = FetchConfig{
		Enabled:         getEnv("FETCH_ENABLED", "false") == "true",
		Interval:        fetchInterval,
		DefaultBranchID: branchID,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Payroll.WorkDaysPerMonth <= 0 {
		return fmt.Errorf("PAYROLL_WORK_DAYS_PER_MONTH must be positive")
	}
	if c.Payroll.MonthlyHoursDivisor <= 0 {
		return fmt.Errorf("PAYROLL_MONTHLY_HOURS_DIVISOR must be positive")
	}
	if c.Fetch.Enabled {
		if c.Mekari.Username == "" {
			return fmt.Errorf("MEKARI_USERNAME is required when FETCH_ENABLED=true")
		}
		if c.Mekari.Secret == "" {
			return fmt.Errorf("MEKARI_SECRET is required when FETCH_ENABLED=true")
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
