package config

import (
	"testing"
	"time"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "DB_HOST", "SQLITE_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("OCR_SERVER_SIDE", "")
	t.Setenv("SERVER_BODY_LIMIT_MB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8787" {
		t.Fatalf("expected port 8787 got %s", cfg.Server.Port)
	}
	if cfg.Server.BodyLimit != 15*1024*1024 {
		t.Fatalf("expected 15MB body limit got %d", cfg.Server.BodyLimit)
	}
	if cfg.Database.Driver != DriverNone {
		t.Fatalf("expected no database got %s", cfg.Database.Driver)
	}
	if cfg.OCR.ServerSide {
		t.Fatalf("server-side OCR must be off by default")
	}
	if len(cfg.OCR.Languages) != 2 || cfg.OCR.Languages[0] != "deu" {
		t.Fatalf("unexpected OCR languages %v", cfg.OCR.Languages)
	}
}

func TestLoadDriverDetection(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example:5432/ustva")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.DSN() != "postgres://u:p@db.example:5432/ustva" {
		t.Fatalf("expected postgres from DATABASE_URL got %s %s", cfg.Database.Driver, cfg.Database.DSN())
	}

	clearDatabaseEnv(t)
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite got %s", cfg.Database.Driver)
	}

	clearDatabaseEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.SQLitePath != "data/ustva.db" {
		t.Fatalf("expected default sqlite path got %s", cfg.Database.SQLitePath)
	}

	clearDatabaseEnv(t)
	t.Setenv("DB_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric timeout")
	}

	t.Setenv("SERVER_READ_TIMEOUT", "5")
	t.Setenv("OCR_SERVER_SIDE", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ReadTimeout != 5*time.Second || !cfg.OCR.ServerSide {
		t.Fatalf("unexpected config %+v %+v", cfg.Server, cfg.OCR)
	}
}

func TestDSNFromParts(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	if got := c.DSN(); got != "host=h port=1 user=u password=p dbname=d sslmode=disable" {
		t.Fatalf("unexpected dsn %s", got)
	}
}
