// Package runner executes a SQL script stored in object storage against a
// database whose credentials live in a secrets service.
//
// A run fetches the credential secret, opens one session, reads the script,
// substitutes positional parameters and executes each statement in its own
// transaction. The first failing statement aborts the run; statements
// committed before it stay committed.
package runner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/animus-labs/sqlrunner/internal/platform/objectstore"
	"github.com/animus-labs/sqlrunner/internal/platform/secrets"
	"github.com/animus-labs/sqlrunner/internal/sqlscript"
)

const defaultMaxScriptBytes = 16 << 20

// Invocation holds the arguments of one run. HasParams distinguishes an
// explicitly empty parameter list from none at all.
type Invocation struct {
	ScriptLocation string
	SecretID       string
	Params         []string
	HasParams      bool
	DryRun         bool
}

func (i Invocation) Validate() error {
	if strings.TrimSpace(i.ScriptLocation) == "" {
		return errors.New("script location is required")
	}
	if strings.TrimSpace(i.SecretID) == "" && !i.DryRun {
		return errors.New("secret id is required")
	}
	return nil
}

// Connector opens the database handle for a credential record.
type Connector func(ctx context.Context, creds secrets.Credentials) (*sql.DB, error)

type Runner struct {
	Secrets          secrets.Provider
	Scripts          objectstore.Store
	Connect          Connector
	Logger           *slog.Logger
	StatementTimeout time.Duration
	MaxScriptBytes   int64
}

type Result struct {
	Statements int
	Elapsed    time.Duration
}

// ErrStatement matches any *StatementError under errors.Is.
var ErrStatement = errors.New("statement failed")

// StatementError reports the statement that aborted a run. Index is 1-based.
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d: %v", e.Index, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

func (e *StatementError) Is(target error) bool { return target == ErrStatement }

func (r *Runner) Run(ctx context.Context, inv Invocation) (res Result, err error) {
	start := time.Now()
	if err := inv.Validate(); err != nil {
		return Result{}, err
	}
	if r.Scripts == nil {
		return Result{}, errors.New("script store is required")
	}
	loc, err := objectstore.ParseLocation(inv.ScriptLocation)
	if err != nil {
		return Result{}, err
	}

	logger := r.logger()
	logger.Info("starting run", "secret", inv.SecretID, "script", loc.String(), "dry_run", inv.DryRun)

	if inv.DryRun {
		script, err := r.loadScript(ctx, loc, inv)
		if err != nil {
			return Result{}, err
		}
		for stmt := range sqlscript.Statements(script) {
			res.Statements++
			logger.Info("dry run statement", "index", res.Statements, "statement", stmt)
		}
		res.Elapsed = time.Since(start)
		logger.Info("dry run complete", "statements", res.Statements, "elapsed", res.Elapsed)
		return res, nil
	}

	if r.Secrets == nil || r.Connect == nil {
		return Result{}, errors.New("secrets provider and connector are required")
	}

	logger.Info("getting connection info", "secret", inv.SecretID)
	creds, err := secrets.Fetch(ctx, r.Secrets, inv.SecretID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve credentials: %w", err)
	}

	logger.Info("connecting", "target", creds)
	db, err := r.Connect(ctx, creds)
	if err != nil {
		return Result{}, fmt.Errorf("connect to %s:%d: %w", creds.Host, creds.Port, err)
	}
	sess, err := openSession(ctx, db)
	if err != nil {
		return Result{}, fmt.Errorf("open session: %w", err)
	}
	logger.Info("connected", "host", creds.Host)

	defer func() {
		if cerr := sess.Close(); cerr != nil {
			if err == nil {
				err = fmt.Errorf("close session: %w", cerr)
				return
			}
			logger.Warn("close session failed", "error", cerr)
		}
	}()

	script, err := r.loadScript(ctx, loc, inv)
	if err != nil {
		return Result{}, err
	}
	logger.Info("script loaded", "statements", sqlscript.Count(script))

	for stmt := range sqlscript.Statements(script) {
		res.Statements++
		logger.Info("running statement", "index", res.Statements, "statement", stmt)
		if err := sess.exec(ctx, stmt, r.StatementTimeout); err != nil {
			return res, &StatementError{Index: res.Statements, Statement: stmt, Err: err}
		}
	}

	res.Elapsed = time.Since(start)
	logger.Info("run complete", "statements", res.Statements, "elapsed", res.Elapsed)
	return res, nil
}

func (r *Runner) loadScript(ctx context.Context, loc objectstore.Location, inv Invocation) (string, error) {
	maxBytes := r.MaxScriptBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxScriptBytes
	}
	text, err := objectstore.ReadText(ctx, r.Scripts, loc, maxBytes)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	if inv.HasParams {
		text = sqlscript.Substitute(text, inv.Params)
	}
	return text, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}
