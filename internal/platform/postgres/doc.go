// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces using pgx. Errors from the driver are mapped onto the sentinel
// errors in the store package so callers never depend on driver types.
package postgres
