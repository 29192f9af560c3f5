// Package logger provides structured logging for the application.
//
// It builds on log/slog: JSON output for production aggregators, a tinted
// console handler for development, and helpers for carrying a
// request-scoped logger through a context.
package logger
