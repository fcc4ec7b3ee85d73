package api

import (
	"context"
)

type ctxKey string

const ctxKeyAdmin ctxKey = "admin"

// Admin identifies the authenticated dashboard user attached to the request.
type Admin struct {
	Email string
}

func WithAdmin(ctx context.Context, a *Admin) context.Context {
	return context.WithValue(ctx, ctxKeyAdmin, a)
}

func AdminFromContext(ctx context.Context) *Admin {
	v := ctx.Value(ctxKeyAdmin)
	if v == nil {
		return nil
	}
	a, _ := v.(*Admin)
	return a
}
