package database

import (
	"context"
	"fmt"

	"sound-byte/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
)

// DriverName is the name go-ora registers with database/sql.
const DriverName = "oracle"

func init() {
	// go-ora takes :name placeholders; Rebind turns ? into :arg1, :arg2, ...
	sqlx.BindDriver(DriverName, sqlx.NAMED)
}

// NewSQLXOracleDB connects and pings the database.
func NewSQLXOracleDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database",
		zap.Int("open_connections", db.Stats().OpenConnections))
	return db, nil
}
