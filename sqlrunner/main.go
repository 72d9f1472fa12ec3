// Command sqlrunner runs a parameterized SQL script from object storage
// against a Redshift cluster, reading the connection record from a secret.
//
//	sqlrunner --SQLScript s3://bucket/path/load.sql --Secret prod/redshift/etl [--Params "2024-01-01, daily"]
//
// It is shaped for AWS Glue Python-shell style invocation: unknown job
// arguments such as --JOB_NAME are ignored.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
