// Package migrations applies the embedded PostgreSQL schema with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

//go:embed sql/*.sql
var files embed.FS

// zapGooseLogger forwards goose output to zap.
type zapGooseLogger struct {
	log *zap.SugaredLogger
}

// Printf implements goose.Logger.
func (l *zapGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

// Fatalf implements goose.Logger. It does not exit; the error is returned by Up.
func (l *zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// Up applies all pending migrations to db.
func Up(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(&zapGooseLogger{log: log.Sugar()})
	goose.SetTableName(TableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "sql"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("database migrations applied")
	return nil
}
