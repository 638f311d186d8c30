package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sijms/go-ora/v2/network"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
// Queries are written with ? placeholders and passed through Rebind.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

const oraUniqueViolation = 1

// isUniqueViolation reports ORA-00001.
func isUniqueViolation(err error) bool {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode == oraUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

func count(ctx context.Context, db DBTX, table string) (int64, error) {
	var n int64
	if err := GetExecutor(ctx, db).GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, err
	}
	return n, nil
}

// nullString stores "" as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
