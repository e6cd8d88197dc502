package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// sqliteLayout is what datetime('now') column defaults produce
const sqliteLayout = "2006-01-02 15:04:05"

// parseTime accepts both RFC3339 and SQLite's default datetime format
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(sqliteLayout, s)
}

// likePattern builds a lowercased substring pattern, escaping LIKE wildcards
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// nullDecimal turns a nullable REAL into a decimal, defaulting to zero
func nullDecimal(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// nullInt64 converts an optional id for insertion
func nullInt64(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
