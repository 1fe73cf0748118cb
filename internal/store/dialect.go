package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQL engines that can back the
// record table.
type Dialect interface {
	// Name is the value accepted in configuration ("sqlite", "postgres", "mysql").
	Name() string

	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// RewriteQuery converts ? placeholders if the driver needs another syntax.
	RewriteQuery(query string) string

	// ConfigureConnection applies pool limits and session settings.
	ConfigureConnection(db *sql.DB) error

	// CreateTableQuery creates the record table if it does not exist.
	CreateTableQuery() string

	// UpsertQuery inserts or overwrites one (key, value) row.
	UpsertQuery() string
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	default:
		return nil, fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// placeholderRegexp matches ? placeholders.
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// likeEscape is the LIKE escape character. Backslash is avoided because
// MySQL treats it specially inside string literals.
const likeEscape = "!"

// likePrefix turns a literal key prefix into a LIKE pattern.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(prefix) + "%"
}

const (
	selectValueQuery = `SELECT record_value FROM records WHERE record_key = ?`
	deleteQuery      = `DELETE FROM records WHERE record_key = ?`
	listKeysQuery    = `SELECT record_key FROM records WHERE record_key LIKE ? ESCAPE '` + likeEscape + `' ORDER BY record_key`
)
