// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return sqliteDSN(d.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
