// Package postgres guarda animales y cuentas del backend de prueba en Postgres.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"petlar-client/internal/ports/backend"
)

var (
	ErrNotFound = backend.ErrNotFound
	ErrConflict = backend.ErrConflict
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS animals (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	type              TEXT NOT NULL,
	age               INTEGER NOT NULL DEFAULT 0,
	birth_date        DATE,
	sex               TEXT NOT NULL DEFAULT '',
	breed             TEXT NOT NULL DEFAULT '',
	weight_centikg      INTEGER NOT NULL DEFAULT 0,
	size              TEXT NOT NULL DEFAULT '',
	registration_date DATE NOT NULL,
	status            TEXT NOT NULL,
	author_name       TEXT NOT NULL DEFAULT '',
	author_phone      TEXT NOT NULL DEFAULT '',
	url_image         TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS animals_type_status_idx ON animals (type, status);

CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone         TEXT NOT NULL DEFAULT '',
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// isUniqueViolation: SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
