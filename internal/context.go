package internal

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// UserContextKey carries the authenticated caller extracted from the access token.
const UserContextKey contextKey = "user"

const (
	RoleAnonymous     = "anonymous"
	RoleAuthenticated = "authenticated"
	RoleAdmin         = "admin"
)

// Caller is the identity established by the jwt middleware.
type Caller struct {
	ID    uuid.UUID
	Roles []string
}

// GetCallerFromContext extracts the caller from request context.
func GetCallerFromContext(ctx context.Context) (Caller, bool) {
	callerData := ctx.Value(UserContextKey)
	if callerData == nil {
		return Caller{}, false
	}

	caller, ok := callerData.(Caller)
	if !ok {
		return Caller{}, false
	}

	return caller, true
}

// CallerRoles returns the caller's roles, falling back to anonymous when the
// request carried no identity.
func CallerRoles(ctx context.Context) []string {
	caller, ok := GetCallerFromContext(ctx)
	if !ok || len(caller.Roles) == 0 {
		return []string{RoleAnonymous}
	}
	return caller.Roles
}
