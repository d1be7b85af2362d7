package ctxkeys

import (
	"context"

	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/session"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey    contextKey = "user"
	SessionKey contextKey = "session"
	ConfigKey  contextKey = "config"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func Session(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
