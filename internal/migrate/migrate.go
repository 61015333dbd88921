// Package migrate applies the embedded SQL migrations.
package migrate

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/stonesign/plaque-cms/migrations"
)

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Up runs all pending migrations from the embedded filesystem.
func Up(ctx context.Context, dsn string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.UpContext(ctx, db, ".")
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, dsn string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.DownContext(ctx, db, ".")
}

// Status writes the applied state of every migration to w.
func Status(ctx context.Context, dsn string, w io.Writer) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetLogger(log.New(w, "", 0))
	defer goose.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	return goose.StatusContext(ctx, db, ".")
}
