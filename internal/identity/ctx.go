package identity

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
)

type ctxKey string

const userKey ctxKey = "plaque.user"

// WithUser stores the resolved caller in context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the caller; nil for anonymous requests.
func UserFromCtx(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}
