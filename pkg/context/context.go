package ctxutil

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	UserIDKey    = constants.CtxKeyUserID
	UsernameKey  = constants.CtxKeyUsername
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	StartTimeKey = constants.CtxKeyStartTime
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithOperation tags the context with the module and function handling it
func WithOperation(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, ModuleKey, module)
	return context.WithValue(ctx, FunctionKey, function)
}

func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UserAgentKey).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(UserIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}

func GetUsername(ctx context.Context) string {
	if val, ok := ctx.Value(UsernameKey).(string); ok {
		return val
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(ModuleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(FunctionKey).(string); ok {
		return val
	}
	return ""
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// NewContextWithRequest creates context with request tracking information
func NewContextWithRequest(ctx context.Context, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = WithOperation(ctx, module, function)

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}

	return ctx
}
