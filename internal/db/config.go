package db

import (
	"time"

	"github.com/go-sql-driver/mysql"
)

type MariaDbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// MultiStatements is only needed to run migration files.
	MultiStatements bool
}

// normaliseDSN forces the driver options the repositories rely on:
// TIMESTAMP columns scan into time.Time and are read back in UTC.
func normaliseDSN(dsn string, multiStatements bool) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	c.ParseTime = true
	c.Loc = time.UTC
	if multiStatements {
		c.MultiStatements = true
	}
	return c.FormatDSN(), nil
}
