package store

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL.
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect.
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

// CreateTableQuery uses VARCHAR for the key because MySQL cannot index an
// unbounded TEXT primary key.
func (d *MySQLDialect) CreateTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS records (
		record_key VARCHAR(255) NOT NULL PRIMARY KEY,
		record_value LONGTEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4`
}

func (d *MySQLDialect) UpsertQuery() string {
	return `INSERT INTO records (record_key, record_value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE
			record_value = VALUES(record_value),
			updated_at = CURRENT_TIMESTAMP`
}
