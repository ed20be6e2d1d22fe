package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool. Foreign keys stay at SQLite's
// default (off): inventory_logs rows outlive their product so deletes are
// unconditional and history is never cascaded away.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		unit TEXT NOT NULL,
		category TEXT NOT NULL,
		brand TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		image TEXT
	);

	CREATE TABLE IF NOT EXISTS inventory_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		old_stock INTEGER NOT NULL,
		new_stock INTEGER NOT NULL,
		changed_by TEXT NOT NULL,
		timestamp TEXT NOT NULL DEFAULT (datetime('now')),
		FOREIGN KEY(product_id) REFERENCES products(id)
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
