// Package logger provides structured logging functionality for the application.
// It configures a process-wide slog JSON logger from configuration and carries
// request-scoped loggers through context so store and sync code can log with
// correlation attributes without threading a logger parameter everywhere.
package logger
