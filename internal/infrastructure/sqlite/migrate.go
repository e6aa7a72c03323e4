package sqlite

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// goose guarda dialecto y FS en variables globales.
var gooseMu sync.Mutex

// Migrate aplica las migraciones embebidas sobre el escritor.
func Migrate(ctx context.Context, db *DB, log *logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.WriteSQL, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version devuelve la versión de esquema aplicada.
func Version(db *DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersion(db.WriteSQL)
}

// gooseLogger adapta el logger de la aplicación a goose.Logger.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	if g.log == nil {
		return
	}
	g.log.Debug().Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	if g.log == nil {
		panic(fmt.Sprintf(format, v...))
	}
	g.log.Fatal().Msgf(format, v...)
}
