package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/sink"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/session"
)

// =============================================================================
// Response Types
// =============================================================================

// ChainResponse lists the traversal sets of one node.
type ChainResponse struct {
	ID         string       `json:"id"`
	Upstream   interact.Set `json:"upstream"`
	Downstream interact.Set `json:"downstream"`
	Chain      interact.Set `json:"chain"`
	Overclock  interact.Set `json:"overclock"`
}

// SessionResponse is a session snapshot.
type SessionResponse struct {
	ID      string                        `json:"id"`
	State   interact.State                `json:"state"`
	Classes map[string]interact.NodeClass `json:"classes"`
}

type nodeRequest struct {
	ID string `json:"id"`
}

type fogRequest struct {
	On bool `json:"on"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// =============================================================================
// Graph Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "nodes": s.graph.NodeCount()})
}

func (s *Server) handleGalaxy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.doc)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fog := s.fog
	if v := q.Get("fog"); v != "" {
		fog = v == "1" || v == "true"
	}
	opts := []sink.Option{sink.WithStyle(s.style), sink.WithFog(fog)}
	if s.labels || q.Get("labels") == "1" || q.Get("labels") == "true" {
		opts = append(opts, sink.WithLabels())
	}
	if s.title != "" {
		opts = append(opts, sink.WithTitle(s.title))
	}
	if sid := q.Get("session"); sid != "" {
		sess, err := s.loadSession(r, sid)
		if err != nil {
			writeError(w, err)
			return
		}
		opts = append(opts, sink.WithState(sess.Engine(s.index).State()))
	}

	svg, err := sink.RenderSVG(s.graph, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// nodeID returns the decoded {id} parameter. chi matches against the raw
// path when the request escapes a reserved character, so placeholder ids
// such as "systems/dark-0" arrive as "systems%2Fdark-0".
func nodeID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	dec, err := url.PathUnescape(id)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid node id %q", id)
	}
	return dec, nil
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	n, ok := s.nodes[id]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.graph.HasNode(id) {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, ChainResponse{
		ID:         id,
		Upstream:   s.index.CollectUpstream(id),
		Downstream: s.index.CollectDownstream(id),
		Chain:      s.index.CollectChain(id),
		Overclock:  s.index.CollectOverclockTargets(id),
	})
}

// =============================================================================
// Session Handlers
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.ttl)
	sess.Fog = s.fog
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusCreated, s.snapshot(sess, sess.Engine(s.index).State()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r, chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(sess, sess.Engine(s.index).State()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decodeNode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(e *interact.Engine) interact.State { return e.OnHover(req.ID) })
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decodeNode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(e *interact.Engine) interact.State { return e.OnSelect(req.ID) })
}

func (s *Server) handleFog(w http.ResponseWriter, r *http.Request) {
	var req fogRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(e *interact.Engine) interact.State { return e.SetFog(req.On) })
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(e *interact.Engine) interact.State { return e.OnClear() })
}

// mutate replays the session, applies fn and stores the new inputs.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*interact.Engine) interact.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(r, chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	st := fn(sess.Engine(s.index))
	sess.Record(st)
	sess.Touch(s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(sess, st))
}

func (s *Server) loadSession(r *http.Request, sid string) (*session.Session, error) {
	sess, err := s.store.Get(r.Context(), sid)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", sid)
	}
	return sess, nil
}

func (s *Server) snapshot(sess *session.Session, st interact.State) SessionResponse {
	return SessionResponse{ID: sess.ID, State: st, Classes: st.Classes(s.graph)}
}

// =============================================================================
// Helpers
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// decodeNode reads a node request. An empty id is allowed and clears the
// input; a malformed one is rejected.
func decodeNode(w http.ResponseWriter, r *http.Request, req *nodeRequest) error {
	if err := decodeBody(w, r, req); err != nil {
		return err
	}
	if req.ID == "" {
		return nil
	}
	return errors.ValidateNodeID(req.ID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidNode, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
