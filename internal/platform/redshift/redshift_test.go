package redshift

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/animus-labs/sqlrunner/internal/platform/env"
	"github.com/animus-labs/sqlrunner/internal/platform/secrets"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("REDSHIFT_DRIVER", "pgx")
	t.Setenv("REDSHIFT_SSLMODE", "require")
	cfg, err := ConfigFromEnv(env.Source{})
	if err != nil {
		t.Fatalf("ConfigFromEnv() err=%v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Driver: DriverPgx, SSLMode: "require", ConnectTimeout: time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	cases := map[string]func(*Config){
		"driver":            func(c *Config) { c.Driver = "mysql" },
		"sslmode":           func(c *Config) { c.SSLMode = "sometimes" },
		"connect timeout":   func(c *Config) { c.ConnectTimeout = 0 },
		"statement timeout": func(c *Config) { c.StatementTimeout = -time.Second },
	}
	for name, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("Validate() expected error for %s", name)
		}
	}
}

func TestDSN(t *testing.T) {
	creds := secrets.Credentials{User: "etl user", Password: "p@ss/w:rd?", Host: "cluster.example.com", Port: 5439, Database: "dev"}
	cfg := Config{Driver: DriverPgx, SSLMode: "verify-full", ConnectTimeout: 1500 * time.Millisecond, ApplicationName: "sqlrunner"}

	dsn := DSN(creds, cfg)
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("url.Parse(%q) err=%v", dsn, err)
	}
	if u.Host != "cluster.example.com:5439" || u.Path != "/dev" {
		t.Fatalf("DSN host=%q path=%q", u.Host, u.Path)
	}
	if u.User.Username() != "etl user" {
		t.Fatalf("DSN user=%q", u.User.Username())
	}
	if pw, _ := u.User.Password(); pw != "p@ss/w:rd?" {
		t.Fatalf("DSN password did not round-trip")
	}
	q := u.Query()
	if q.Get("sslmode") != "verify-full" || q.Get("connect_timeout") != "2" || q.Get("application_name") != "sqlrunner" {
		t.Fatalf("DSN query=%v", q)
	}
}

func TestApplicationName(t *testing.T) {
	const id = "0b6f5c1e-9a4e-4f55-8f3a-2d1c7e9b4a10"
	cases := []struct {
		base, runID, want string
	}{
		{"sqlrunner", id, "sqlrunner-" + id},
		{"sqlrunner", "", "sqlrunner"},
		{"", id, id},
		{strings.Repeat("x", 40), id, (strings.Repeat("x", 40) + "-" + id)[:63]},
	}
	for _, tc := range cases {
		if got := ApplicationName(tc.base, tc.runID); got != tc.want {
			t.Fatalf("ApplicationName(%q, %q)=%q, want %q", tc.base, tc.runID, got, tc.want)
		}
	}
}

func TestDSN_ApplicationNameCarriesRunID(t *testing.T) {
	creds := secrets.Credentials{User: "etl", Password: "pw", Host: "h", Port: 5439, Database: "dev"}
	cfg := Config{Driver: DriverPgx, SSLMode: "require", ConnectTimeout: time.Second, ApplicationName: ApplicationName("sqlrunner", "run-42")}

	u, err := url.Parse(DSN(creds, cfg))
	if err != nil {
		t.Fatalf("url.Parse() err=%v", err)
	}
	if got := u.Query().Get("application_name"); got != "sqlrunner-run-42" {
		t.Fatalf("application_name=%q, want %q", got, "sqlrunner-run-42")
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "nope"}, secrets.Credentials{})
	if err == nil {
		t.Fatalf("Open() expected error for invalid config")
	}
}

func TestOpen_Unreachable(t *testing.T) {
	creds := secrets.Credentials{User: "u", Password: "p", Host: "127.0.0.1", Port: 1, Database: "d"}
	for _, driver := range []string{DriverPgx, DriverPQ} {
		cfg := Config{Driver: driver, SSLMode: "disable", ConnectTimeout: 2 * time.Second}
		db, err := Open(context.Background(), cfg, creds)
		if err == nil {
			_ = db.Close()
			t.Fatalf("Open(%s) expected error for unreachable host", driver)
		}
		if strings.Contains(err.Error(), "p@") {
			t.Fatalf("Open(%s) error leaks credentials: %v", driver, err)
		}
	}
}
