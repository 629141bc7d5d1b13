// Package viewer carries the identity of the requester, or its absence,
// through composition and toggle operations.
package viewer

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Viewer is the resolved requester. The zero value is an anonymous viewer.
type Viewer struct {
	id primitive.ObjectID
}

// Anonymous returns a viewer with no identity
func Anonymous() Viewer { return Viewer{} }

// Of returns the viewer identified by id. A zero id yields an anonymous viewer.
func Of(id primitive.ObjectID) Viewer { return Viewer{id: id} }

// ID returns the viewer id and whether the viewer is authenticated
func (v Viewer) ID() (primitive.ObjectID, bool) {
	return v.id, !v.id.IsZero()
}

// IsAnonymous reports whether no identity was resolved
func (v Viewer) IsAnonymous() bool { return v.id.IsZero() }

// Is reports whether the viewer is the user with the given id
func (v Viewer) Is(userID primitive.ObjectID) bool {
	return !v.id.IsZero() && v.id == userID
}

type ctxKey struct{}

// WithViewer stores v on the context
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the viewer stored on ctx, or an anonymous viewer
func FromContext(ctx context.Context) Viewer {
	if ctx == nil {
		return Anonymous()
	}
	if v, ok := ctx.Value(ctxKey{}).(Viewer); ok {
		return v
	}
	return Anonymous()
}
