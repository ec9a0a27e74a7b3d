// Package logger builds slog.Logger instances with a consistent output format
// and provides shared attribute helpers so log keys stay uniform across the
// service.
package logger
