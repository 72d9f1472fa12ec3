package runner

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
)

// recorder is a database/sql connector that logs every call the runner makes.
type recorder struct {
	mu       sync.Mutex
	events   []string
	failOn   string
	closeErr error
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Execs() []string {
	var out []string
	for _, e := range r.Events() {
		if stmt, ok := strings.CutPrefix(e, "exec:"); ok {
			out = append(out, stmt)
		}
	}
	return out
}

func (r *recorder) DB() *sql.DB {
	return sql.OpenDB(r)
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) {
	r.record("connect")
	return &recConn{rec: r}, nil
}

func (r *recorder) Driver() driver.Driver { return recDriver{} }

func (r *recorder) Close() error {
	r.record("db.close")
	return r.closeErr
}

type recDriver struct{}

func (recDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use the connector")
}

type recConn struct {
	rec *recorder
}

func (c *recConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recConn) Begin() (driver.Tx, error) {
	c.rec.record("begin")
	return recTx{rec: c.rec}, nil
}

func (c *recConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.rec.record("exec:" + query)
	if c.rec.failOn != "" && strings.Contains(query, c.rec.failOn) {
		return nil, errors.New("syntax error at or near " + c.rec.failOn)
	}
	return driver.RowsAffected(1), nil
}

func (c *recConn) Close() error {
	c.rec.record("conn.close")
	return nil
}

type recTx struct {
	rec *recorder
}

func (t recTx) Commit() error {
	t.rec.record("commit")
	return nil
}

func (t recTx) Rollback() error {
	t.rec.record("rollback")
	return nil
}
