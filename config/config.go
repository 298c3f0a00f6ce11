package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fraccalc/logger"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Addr           string
	DataFile       string
	HistoryLimit   int
	Username       string
	Password       string
	JWTSecret      string
	OpenBrowser    bool
	LogLevel       string
	AllowedOrigins []string
}

// FileConfig - содержимое TOML файла конфигурации
type FileConfig struct {
	Addr           string   `toml:"addr"`
	DataFile       string   `toml:"data_file"`
	HistoryLimit   int      `toml:"history_limit"`
	Username       string   `toml:"username"`
	Password       string   `toml:"password"`
	JWTSecret      string   `toml:"jwt_secret"`
	OpenBrowser    *bool    `toml:"open_browser"`
	LogLevel       string   `toml:"log_level"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		Addr:           ":8080",
		DataFile:       "calculator_data.json",
		HistoryLimit:   100,
		Username:       "user",
		Password:       "123",
		JWTSecret:      "change-me",
		OpenBrowser:    true,
		LogLevel:       "info",
		AllowedOrigins: []string{"*"},
	}
}

// Load - сборка конфигурации: значения по умолчанию, TOML файл, .env, переменные окружения.
// Пустой path означает путь по умолчанию; отсутствующий файл не является ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" && fileExists(path) {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg.applyFile(fc)
	}

	// Загрузка .env файла
	if err := godotenv.Load(); err != nil {
		log := logger.Logger()
		log.Debug().Msg("no .env file found, using system environment variables")
	}
	cfg.applyEnv()

	return cfg, nil
}

// LoadFile - чтение TOML файла
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultPath returns ~/.fraccalc/config.toml, or "" without a home directory.
func DefaultPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fraccalc", "config.toml")
	}
	return ""
}

func (c *Config) applyFile(fc FileConfig) {
	setString(&c.Addr, fc.Addr)
	setString(&c.DataFile, fc.DataFile)
	setString(&c.Username, fc.Username)
	setString(&c.Password, fc.Password)
	setString(&c.JWTSecret, fc.JWTSecret)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.HistoryLimit != 0 {
		c.HistoryLimit = fc.HistoryLimit
	}
	if fc.OpenBrowser != nil {
		c.OpenBrowser = *fc.OpenBrowser
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("FRACCALC_ADDR", c.Addr)
	c.DataFile = getEnv("FRACCALC_DATA_FILE", c.DataFile)
	c.HistoryLimit = getEnvAsInt("FRACCALC_HISTORY_LIMIT", c.HistoryLimit)
	c.Username = getEnv("USERNAME", c.Username)
	c.Password = getEnv("PASSWORD", c.Password)
	c.JWTSecret = getEnv("FRACCALC_JWT_SECRET", c.JWTSecret)
	c.OpenBrowser = getEnvAsBool("FRACCALC_OPEN_BROWSER", c.OpenBrowser)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if origins := getEnv("FRACCALC_ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

// Validate - проверка итоговой конфигурации
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data file is required"))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
