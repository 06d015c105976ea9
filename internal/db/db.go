package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"ejournal/internal/models"
)

type DB struct {
	conn *sql.DB
}

func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// NewMemory creates an in-memory database for testing.
func NewMemory() (*DB, error) {
	return New(":memory:")
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			profile_image TEXT DEFAULT '',
			birth_day TEXT DEFAULT '',
			birth_month TEXT DEFAULT '',
			birth_year TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := d.conn.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Records
//
// Records hold the journal's persisted snapshots as independent
// string-keyed JSON blobs. Absence is not an error.

func (d *DB) GetRecord(key string) (string, bool, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (d *DB) PutRecord(key, value string) error {
	_, err := d.conn.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// Users

func (d *DB) CreateUser(u *models.User, passwordHash string) error {
	_, err := d.conn.Exec(
		`INSERT INTO users (id, email, username, password_hash, profile_image, birth_day, birth_month, birth_year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, passwordHash, u.ProfileImage,
		u.Birthday.Day, u.Birthday.Month, u.Birthday.Year, u.CreatedAt,
	)
	return err
}

func (d *DB) GetUser(id string) (*models.User, error) {
	return d.scanUser(d.conn.QueryRow(
		`SELECT id, email, username, profile_image, birth_day, birth_month, birth_year, created_at FROM users WHERE id = ?`, id))
}

func (d *DB) GetUserByEmail(email string) (*models.User, string, error) {
	var u models.User
	var hash string
	var createdAt time.Time
	err := d.conn.QueryRow(
		`SELECT id, email, username, password_hash, profile_image, birth_day, birth_month, birth_year, created_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Username, &hash, &u.ProfileImage,
		&u.Birthday.Day, &u.Birthday.Month, &u.Birthday.Year, &createdAt)
	if err != nil {
		return nil, "", err
	}
	u.CreatedAt = createdAt
	return &u, hash, nil
}

func (d *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.ProfileImage,
		&u.Birthday.Day, &u.Birthday.Month, &u.Birthday.Year, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
