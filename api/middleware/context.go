package middleware

import (
	"context"

	"github.com/sca-hospital/activos-backend/pkg/authz"
	"github.com/sca-hospital/activos-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxUsername  contextKey = "username"
	ctxRole      contextKey = "actor_role"
	ctxSessionID contextKey = "session_id"
)

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) *enums.Role {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return &v
	}
	return nil
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext assembles the authorization actor seeded by Auth.
func ActorFromContext(ctx context.Context) authz.Actor {
	userID := UserIDFromContext(ctx)
	return authz.Actor{
		Authenticated: userID > 0,
		UserID:        userID,
		Username:      UsernameFromContext(ctx),
		Role:          RoleFromContext(ctx),
	}
}

// WithActor injects the acting identity into the context. Exposed for tests
// and internal callers that bypass the HTTP auth flow.
func WithActor(ctx context.Context, userID int64, username string, role *enums.Role, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	if role != nil {
		ctx = context.WithValue(ctx, ctxRole, *role)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	}
	return ctx
}
