package api_context

import (
	"context"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

type ctxKey string

const (
	ImageIDKey     ctxKey = "imageID"
	AuthSubjectKey ctxKey = "authSubject"
	AuthRolesKey   ctxKey = "authRoles"
)

// ServiceSubject is recorded for callers authenticated by the shared service secret.
const ServiceSubject = "service"

func WithImageID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ImageIDKey, id)
}

func ImageIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ImageIDKey).(uuid.UUID)
	return id, ok
}

func WithAuthSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, AuthSubjectKey, sub)
}

func AuthSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(AuthSubjectKey).(string)
	return sub, ok && sub != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
