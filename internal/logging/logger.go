// Package logging is the structured logger shared by the eventaura server
// and its components. SlogLogger is the only implementation.
package logging

import "context"

// Logger takes key-value pairs after the message:
//
//	log.Info(ctx, "event joined", "event_id", id, "user_id", uid)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}
