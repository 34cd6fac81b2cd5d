package common

import (
	"context"

	"gitlab.com/kabes/go-spahost/internal/model"
)

//nolint:gochecknoglobals
var ctxPrincipalKey = any("ctxPrincipalKey")

// ContextPrincipal return the authenticated user from context or nil when
// the request is unauthenticated.
func ContextPrincipal(ctx context.Context) *model.User {
	user, ok := ctx.Value(ctxPrincipalKey).(*model.User)
	if ok {
		return user
	}

	return nil
}

// ContextWithPrincipal create new context carrying the authenticated user.
func ContextWithPrincipal(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, user)
}
