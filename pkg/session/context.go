// Package session carries per-conversation state for the orchestration
// layer. The ranking and booking engines are pure and never read it.
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// Context is the per-conversation state attached to a context.Context.
type Context interface {
	GetSessionID() string
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type sessionContext struct {
	sessionID string
	metadata  sync.Map
}

func (c *sessionContext) GetSessionID() string {
	return c.sessionID
}

func (c *sessionContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *sessionContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// NewContext creates a session context, generating an ID when none is given.
func NewContext(sessionID string) Context {
	return &sessionContext{
		sessionID: values.StringsCoalesce(sessionID, NewSessionID()),
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithContext returns a new context carrying the session.
func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, keyContext, sc)
}

// FromContext retrieves the session from the context, or nil.
func FromContext(ctx context.Context) Context {
	if v, ok := ctx.Value(keyContext).(Context); ok {
		return v
	}
	return nil
}

// GetSessionID retrieves the session ID from the context, or "".
func GetSessionID(ctx context.Context) string {
	if v := FromContext(ctx); v != nil {
		return v.GetSessionID()
	}
	return ""
}

// NewSessionID generates a new session ID using the flake ID generator.
func NewSessionID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
