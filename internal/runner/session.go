package runner

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// session pins one connection for the whole run.
type session struct {
	db   *sql.DB
	conn *sql.Conn
}

func openSession(ctx context.Context, db *sql.DB) (*session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &session{db: db, conn: conn}, nil
}

// exec runs one statement in its own transaction and commits it.
func (s *session) exec(ctx context.Context, stmt string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return errors.Join(err, rerr)
		}
		return err
	}
	return tx.Commit()
}

func (s *session) Close() error {
	return errors.Join(s.conn.Close(), s.db.Close())
}
