package redshift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/animus-labs/sqlrunner/internal/platform/env"
	"github.com/animus-labs/sqlrunner/internal/platform/secrets"
)

const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

var sslModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

type Config struct {
	Driver           string
	SSLMode          string
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
	ApplicationName  string
}

func ConfigFromEnv(src env.Source) (Config, error) {
	connectTimeout, err := src.Duration("REDSHIFT_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	statementTimeout, err := src.Duration("REDSHIFT_STATEMENT_TIMEOUT", 0)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Driver:           strings.TrimSpace(src.String("REDSHIFT_DRIVER", DriverPgx)),
		SSLMode:          strings.TrimSpace(src.String("REDSHIFT_SSLMODE", "require")),
		ConnectTimeout:   connectTimeout,
		StatementTimeout: statementTimeout,
		ApplicationName:  strings.TrimSpace(src.String("REDSHIFT_APPLICATION_NAME", "sqlrunner")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Driver != DriverPgx && c.Driver != DriverPQ {
		return fmt.Errorf("REDSHIFT_DRIVER must be %q or %q, got %q", DriverPgx, DriverPQ, c.Driver)
	}
	if !sslModes[c.SSLMode] {
		return fmt.Errorf("REDSHIFT_SSLMODE %q is not a valid sslmode", c.SSLMode)
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("REDSHIFT_CONNECT_TIMEOUT must be positive")
	}
	if c.StatementTimeout < 0 {
		return errors.New("REDSHIFT_STATEMENT_TIMEOUT must be >= 0")
	}
	return nil
}

// maxApplicationName is the longest application_name the server keeps.
const maxApplicationName = 63

// ApplicationName suffixes base with the run id as "<base>-<runID>".
func ApplicationName(base, runID string) string {
	name := base
	switch {
	case runID == "":
	case name == "":
		name = runID
	default:
		name = base + "-" + runID
	}
	if len(name) > maxApplicationName {
		name = name[:maxApplicationName]
	}
	return name
}

// DSN renders a postgres URL for the cluster. User and password are escaped.
func DSN(creds secrets.Credentials, cfg Config) string {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(math.Ceil(cfg.ConnectTimeout.Seconds()))))
	if cfg.ApplicationName != "" {
		q.Set("application_name", cfg.ApplicationName)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(creds.User, creds.Password),
		Host:     net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port)),
		Path:     "/" + creds.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open returns a handle capped at a single connection, pinged before return.
// The pgx driver runs in simple-protocol mode; Redshift does not support the
// full extended query protocol.
func Open(ctx context.Context, cfg Config, creds secrets.Credentials) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var db *sql.DB
	switch cfg.Driver {
	case DriverPgx:
		connCfg, err := pgx.ParseConfig(DSN(creds, cfg))
		if err != nil {
			return nil, fmt.Errorf("parse connection config: %w", err)
		}
		connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		db = stdlib.OpenDB(*connCfg)
	case DriverPQ:
		var err error
		db, err = sql.Open(DriverPQ, DSN(creds, cfg))
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s:%d: %w", creds.Host, creds.Port, err)
	}

	return db, nil
}
