// Package outbox is a small transactional event log. Content writers append
// events inside the same transaction as the row they describe; a dispatcher
// polls unprocessed events and fans out notifications. This replaces
// fire-after-commit hooks with something that survives a crash between
// commit and delivery.
package outbox

import (
	"context"
	"database/sql"
	"time"
)

const (
	TypeDocumentCreated = "document.created"
	TypeQuizCreated     = "quiz.created"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Execer is satisfied by *sql.DB and *sql.Tx; Append runs inside the
// caller's transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func Append(ctx context.Context, ex Execer, typ, key, dataJSON string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, processed, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		typ, key, dataJSON, false, time.Now().Unix())
	return err
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Unprocessed(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", typ, key, data, created_at FROM event_log
		 WHERE processed=$1 ORDER BY "offset" LIMIT $2`, false, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) MarkProcessed(ctx context.Context, offset int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE event_log SET processed=$1 WHERE "offset"=$2`, true, offset)
	return err
}
