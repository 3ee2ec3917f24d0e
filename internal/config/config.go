package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Work     WorkConfig
	Penalty  PenaltyConfig
	Leave    LeaveConfig
	Request  RequestConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// WorkConfig describes the working calendar.
type WorkConfig struct {
	Timezone         string
	Location         *time.Location
	WeekendDays      []time.Weekday
	DefaultShiftType string
}

// PenaltyConfig is the block rule. Enabled is false when either value is unset.
type PenaltyConfig struct {
	Enabled         bool
	MinutesPerBlock int
	AmountPerBlock  decimal.Decimal
}

// LeaveConfig holds the leave ledger defaults.
type LeaveConfig struct {
	AnnualPaidQuota  decimal.Decimal
	UnpaidAllowance  decimal.Decimal
	MaxCarryOverDays decimal.Decimal
	AccrualMethod    string
}

// RequestConfig bounds the dates a request may cover, in days. Zero
// disables a limit.
type RequestConfig struct {
	MaxDays         int
	MaxAdvanceDays  int
	BackdateMaxDays int
}

type CronConfig struct {
	Enabled bool
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	AccrualYearly  = "yearly"
	AccrualMonthly = "monthly"
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:      getEnv("STORAGE_DRIVER", DriverPostgres),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Work calendar
	tz := getEnv("APP_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	weekend, err := parseWeekdays(getEnvSlice("WORK_WEEKEND_DAYS", "Saturday,Sunday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORK_WEEKEND_DAYS: %w", err)
	}
	config.Work = WorkConfig{
		Timezone:         tz,
		Location:         loc,
		WeekendDays:      weekend,
		DefaultShiftType: getEnv("DEFAULT_SHIFT_TYPE", "NORMAL"),
	}

	// Penalty block rule, absent unless both values are set
	minutesRaw := getEnv("PENALTY_MINUTES_PER_BLOCK", "")
	amountRaw := getEnv("PENALTY_AMOUNT_PER_BLOCK", "")
	if minutesRaw != "" && amountRaw != "" {
		minutes, err := strconv.Atoi(minutesRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid PENALTY_MINUTES_PER_BLOCK: %w", err)
		}
		amount, err := decimal.NewFromString(amountRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid PENALTY_AMOUNT_PER_BLOCK: %w", err)
		}
		config.Penalty = PenaltyConfig{Enabled: true, MinutesPerBlock: minutes, AmountPerBlock: amount}
	}

	// Leave ledger defaults
	quota, err := getEnvDecimal("LEAVE_ANNUAL_PAID_QUOTA", "12")
	if err != nil {
		return nil, err
	}
	unpaid, err := getEnvDecimal("LEAVE_UNPAID_ALLOWANCE", "0")
	if err != nil {
		return nil, err
	}
	maxCarry, err := getEnvDecimal("LEAVE_MAX_CARRY_OVER_DAYS", "5")
	if err != nil {
		return nil, err
	}
	config.Leave = LeaveConfig{
		AnnualPaidQuota:  quota,
		UnpaidAllowance:  unpaid,
		MaxCarryOverDays: maxCarry,
		AccrualMethod:    strings.ToLower(getEnv("LEAVE_ACCRUAL_METHOD", AccrualYearly)),
	}

	// Request date limits
	maxDays, err := getEnvInt("REQUEST_MAX_DAYS", "31")
	if err != nil {
		return nil, err
	}
	maxAdvance, err := getEnvInt("REQUEST_MAX_ADVANCE_DAYS", "365")
	if err != nil {
		return nil, err
	}
	backdate, err := getEnvInt("REQUEST_BACKDATE_MAX_DAYS", "30")
	if err != nil {
		return nil, err
	}
	config.Request = RequestConfig{MaxDays: maxDays, MaxAdvanceDays: maxAdvance, BackdateMaxDays: backdate}

	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	config.Cron = CronConfig{Enabled: cronEnabled}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if c.Penalty.Enabled && (c.Penalty.MinutesPerBlock <= 0 || c.Penalty.AmountPerBlock.IsNegative()) {
		return fmt.Errorf("penalty block rule must have positive minutes and a non-negative amount")
	}
	if c.Leave.AnnualPaidQuota.IsNegative() || c.Leave.UnpaidAllowance.IsNegative() || c.Leave.MaxCarryOverDays.IsNegative() {
		return fmt.Errorf("leave defaults must not be negative")
	}
	if c.Leave.AccrualMethod != AccrualYearly && c.Leave.AccrualMethod != AccrualMonthly {
		return fmt.Errorf("LEAVE_ACCRUAL_METHOD must be %q or %q", AccrualYearly, AccrualMonthly)
	}
	if c.Request.MaxDays < 0 || c.Request.MaxAdvanceDays < 0 || c.Request.BackdateMaxDays < 0 {
		return fmt.Errorf("request day limits must not be negative")
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

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key, fallback string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, d)
	}
	return days, nil
}
