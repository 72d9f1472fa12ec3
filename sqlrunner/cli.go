package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/animus-labs/sqlrunner/internal/platform/env"
	"github.com/animus-labs/sqlrunner/internal/platform/logging"
	"github.com/animus-labs/sqlrunner/internal/platform/objectstore"
	"github.com/animus-labs/sqlrunner/internal/platform/redshift"
	"github.com/animus-labs/sqlrunner/internal/platform/runid"
	"github.com/animus-labs/sqlrunner/internal/platform/secrets"
	"github.com/animus-labs/sqlrunner/internal/runner"
	"github.com/animus-labs/sqlrunner/internal/sqlscript"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	flagScript = "SQLScript"
	flagSecret = "Secret"
	flagParams = "Params"
	flagDryRun = "DryRun"
)

// runError marks failures that happened while running, as opposed to bad
// arguments or configuration.
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

type options struct {
	script string
	secret string
	params string
	dryRun bool
}

// Execute runs the command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	src, err := env.Load()
	if err != nil {
		fmt.Fprintf(stderr, "invalid settings file: %v\n", err)
		return exitUsage
	}
	logCfg, err := logging.ConfigFromEnv(src)
	if err != nil {
		fmt.Fprintf(stderr, "invalid logging config: %v\n", err)
		return exitUsage
	}

	id := runid.New()
	logger := logging.New(stdout, logCfg).With("service", "sqlrunner", "run_id", id)

	cmd := newRootCmd(src, logger)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(runid.WithContext(ctx, id)); err != nil {
		var rerr *runError
		if errors.As(err, &rerr) {
			logger.Error("run failed", "error", rerr.err)
			return exitFailure
		}
		logger.Error("invalid invocation", "error", err)
		return exitUsage
	}
	return exitOK
}

func newRootCmd(src env.Source, logger *slog.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "sqlrunner --SQLScript <uri> --Secret <id> [--Params <v1,v2,...>]",
		Short:         "Run a SQL script from object storage against Redshift",
		Long:          "Fetches cluster credentials from a secret, reads the SQL script, substitutes ${1}, ${2}, ... with --Params values and executes each ';'-separated statement, committing after each one.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv := runner.Invocation{
				ScriptLocation: opts.script,
				SecretID:       opts.secret,
				DryRun:         opts.dryRun,
			}
			if cmd.Flags().Changed(flagParams) {
				inv.Params = sqlscript.ParseParams(opts.params)
				inv.HasParams = true
			}
			if !opts.dryRun && strings.TrimSpace(opts.secret) == "" {
				return fmt.Errorf("required flag %q not set", flagSecret)
			}
			if err := inv.Validate(); err != nil {
				return err
			}
			if _, err := objectstore.ParseLocation(inv.ScriptLocation); err != nil {
				return err
			}

			r, closeStores, err := buildRunner(src, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStores(); err != nil {
					logger.Warn("close object store clients", "error", err)
				}
			}()

			if _, err := r.Run(cmd.Context(), inv); err != nil {
				return &runError{err: err}
			}
			return nil
		},
	}

	registerFlags(cmd.Flags(), &opts)
	_ = cmd.MarkFlagRequired(flagScript)

	return cmd
}

func registerFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.script, flagScript, "", "location of the SQL script (s3://, gs://, az://, abfss://, file://)")
	flags.StringVar(&opts.secret, flagSecret, "", "secret id or ARN holding {user, password, host, port, database}; file://<path> reads a local JSON file")
	flags.StringVar(&opts.params, flagParams, "", "comma-separated values for ${1}, ${2}, ... placeholders")
	flags.BoolVar(&opts.dryRun, flagDryRun, false, "read and split the script and log each statement without connecting")
}

// buildRunner wires the production backends from configuration.
func buildRunner(src env.Source, logger *slog.Logger) (*runner.Runner, func() error, error) {
	dbCfg, err := redshift.ConfigFromEnv(src)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid database config: %w", err)
	}
	storeCfg, err := objectstore.ConfigFromEnv(src)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid object store config: %w", err)
	}
	stores := objectstore.NewRouter(storeCfg)

	r := &runner.Runner{
		Secrets: &secrets.Router{
			NewAWS: func(ctx context.Context) (secrets.Provider, error) {
				p, err := secrets.NewAWSProvider(ctx)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
			File: secrets.FileProvider{},
		},
		Scripts: stores,
		Connect: func(ctx context.Context, creds secrets.Credentials) (*sql.DB, error) {
			cfg := dbCfg
			cfg.ApplicationName = redshift.ApplicationName(dbCfg.ApplicationName, runid.FromContext(ctx))
			return redshift.Open(ctx, cfg, creds)
		},
		Logger:           logger,
		StatementTimeout: dbCfg.StatementTimeout,
		MaxScriptBytes:   storeCfg.MaxScriptBytes,
	}
	return r, stores.Close, nil
}
