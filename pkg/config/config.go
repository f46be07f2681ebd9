package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OCR      OCRConfig
	Inbox    InboxConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	BodyLimit      int
	CORSOrigins    string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	MaxConns   int32
	SQLitePath string
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value string built
// from the individual settings.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type OCRConfig struct {
	// ServerSide enables the text fallback for PDFs without XML, images and plain text.
	ServerSide bool
	Languages  []string
}

type InboxConfig struct {
	Dir     string
	Workers int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way.
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, err := getEnvInt("SERVER_READ_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvInt("SERVER_REQUEST_TIMEOUT", 25)
	if err != nil {
		return nil, err
	}
	bodyLimitMB, err := getEnvInt("SERVER_BODY_LIMIT_MB", 15)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 4)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("INBOX_WORKERS", 2)
	if err != nil {
		return nil, err
	}

	db := DatabaseConfig{
		URL:        getEnv("DATABASE_URL", ""),
		Host:       getEnv("DB_HOST", ""),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "ustva"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		MaxConns:   int32(maxConns),
		SQLitePath: getEnv("SQLITE_PATH", ""),
	}
	db.Driver, err = resolveDriver(getEnv("DB_DRIVER", ""), &db)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8787"),
			ReadTimeout:    time.Duration(readTimeout) * time.Second,
			WriteTimeout:   time.Duration(writeTimeout) * time.Second,
			RequestTimeout: time.Duration(requestTimeout) * time.Second,
			BodyLimit:      bodyLimitMB * 1024 * 1024,
			CORSOrigins:    getEnv("CORS_ORIGIN", "http://localhost:8080"),
		},
		Database: db,
		OCR: OCRConfig{
			ServerSide: getEnvBool("OCR_SERVER_SIDE", false),
			Languages:  splitList(getEnv("OCR_LANGUAGES", "deu,eng")),
		},
		Inbox: InboxConfig{
			Dir:     getEnv("INBOX_DIR", ""),
			Workers: workers,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

// resolveDriver picks postgres when a server is configured, sqlite when only a
// file path is, and none otherwise.
func resolveDriver(explicit string, db *DatabaseConfig) (string, error) {
	switch strings.ToLower(explicit) {
	case DriverPostgres:
		if db.URL == "" && db.Host == "" {
			db.Host = "localhost"
		}
		return DriverPostgres, nil
	case DriverSQLite:
		if db.SQLitePath == "" {
			db.SQLitePath = "data/ustva.db"
		}
		return DriverSQLite, nil
	case DriverNone:
		return DriverNone, nil
	case "":
	default:
		return "", fmt.Errorf("invalid DB_DRIVER %q (postgres, sqlite or none)", explicit)
	}

	switch {
	case db.URL != "":
		if _, err := url.Parse(db.URL); err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return DriverPostgres, nil
	case db.Host != "":
		return DriverPostgres, nil
	case db.SQLitePath != "":
		return DriverSQLite, nil
	}
	return DriverNone, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
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
