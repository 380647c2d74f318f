// Package audit ведёт журнал изменяющих вызовов API в PostgreSQL:
// кто (сессия), что (действие и цель) и чем закончилось.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/remna-admin-bot/internal/db/postgres"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
)

// Migrations — схема журнала.
var Migrations = []postgres.Migration{
	{Version: 1, SQL: `
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    session_id BIGINT NOT NULL,
    action VARCHAR(64) NOT NULL,
    target VARCHAR(255) NOT NULL DEFAULT '',
    outcome VARCHAR(32) NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_session_id ON audit_log(session_id);
`},
}

// writeTimeout ограничивает запись, чтобы медленная база не держала сессию.
const writeTimeout = 3 * time.Second

// DB — то, что журналу нужно от пула (pgxpool.Pool подходит).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Entry — одна запись журнала.
type Entry struct {
	ID        int64     `db:"id"`
	SessionID int64     `db:"session_id"`
	Action    string    `db:"action"`
	Target    string    `db:"target"`
	Outcome   string    `db:"outcome"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
}

// Journal реализует conversation.Recorder поверх PostgreSQL.
type Journal struct {
	db DB
}

func NewJournal(db DB) *Journal {
	return &Journal{db: db}
}

// Record пишет запись. Ошибка записи только логируется: журнал не должен
// ломать ответ администратору.
func (j *Journal) Record(ctx context.Context, sessionID int64, action, target string, err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	var msg string
	if err != nil {
		msg = err.Error()
	}
	_, dbErr := j.db.Exec(ctx,
		`INSERT INTO audit_log (session_id, action, target, outcome, error) VALUES ($1, $2, $3, $4, $5)`,
		sessionID, action, target, gateway.Outcome(err), msg,
	)
	if dbErr != nil {
		log.WithFields(log.Fields{
			"component":  "audit",
			"session_id": sessionID,
			"action":     action,
		}).WithError(dbErr).Error("Не удалось записать в журнал")
	}
}

// Recent возвращает последние limit записей, новые первыми.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.Query(ctx,
		`SELECT id, session_id, action, target, outcome, error, created_at
		   FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit recent: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[Entry])
	if err != nil {
		return nil, fmt.Errorf("audit recent: %w", err)
	}
	return entries, nil
}
