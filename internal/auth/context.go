package auth

import (
	"context"

	"github.com/dukerupert/parlor/internal/model"
)

type contextKey struct{}

// SessionContext is what the session middleware learned about the caller.
type SessionContext struct {
	SessionID string
	IsAdmin   bool
	// New is set when the session was issued by this request.
	New bool
}

func WithSession(ctx context.Context, sc SessionContext) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

func FromContext(ctx context.Context) (SessionContext, bool) {
	sc, ok := ctx.Value(contextKey{}).(SessionContext)
	return sc, ok
}

// FromSession builds the context value for a resolved session.
func FromSession(sess *model.Session, isNew bool) SessionContext {
	return SessionContext{SessionID: sess.ID, IsAdmin: sess.IsAdmin, New: isNew}
}

func SessionID(ctx context.Context) string {
	sc, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return sc.SessionID
}

func IsAdmin(ctx context.Context) bool {
	sc, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return sc.IsAdmin
}
