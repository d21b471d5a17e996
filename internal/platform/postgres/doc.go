// Package postgres implements the store interfaces against a PostgreSQL
// database reached through database/sql and the pgx stdlib driver.
package postgres
