// Package session stores interaction sessions for the galaxy server.
//
// A session records the inputs of one viewer's interaction: the hovered
// node, the selected node and whether fog is on. It does not store derived
// highlight sets; those are recomputed by replaying the inputs into an
// [interact.Engine] over the server's shared index, so a session stays small
// and survives a graph reload as long as its node ids still exist.
//
// # Backends
//
//   - [MemoryStore]: in-process map, the default for the serve command
//   - [FileStore]: JSON files in a directory, shared by processes on one host
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
//	eng := sess.Engine(idx)
//	sess.Record(eng.OnSelect("compilers"))
//	store.Set(ctx, sess)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
)

// Session stores one viewer's interaction inputs.
type Session struct {
	ID        string    `json:"id"`
	Hovered   string    `json:"hovered,omitempty"`
	Selected  string    `json:"selected,omitempty"`
	Fog       bool      `json:"fog"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Engine returns an engine over idx with the session's inputs replayed.
// Inputs that no longer name a node are dropped by the engine.
func (s *Session) Engine(idx *interact.Index) *interact.Engine {
	e := interact.NewEngine(idx, interact.WithFog(s.Fog))
	e.OnHover(s.Hovered)
	e.OnSelect(s.Selected)
	return e
}

// Record copies the inputs of st into the session.
func (s *Session) Record(st interact.State) {
	s.Hovered = st.Hovered
	s.Selected = st.Selected
	s.Fog = st.Fog
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 2 * time.Hour

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a generated session ID.
// Stores use it to reject ids that could escape their namespace.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// New creates an idle session that expires after ttl.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
