package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// ─── Curriculum API (/api/users/{user}/curriculum) ──────────────────────────

func (s *Server) handleCurriculumState(w http.ResponseWriter, r *http.Request) {
	state, err := s.curriculum.State(r.Context(), userParam(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type beginRequest struct {
	Goal string `json:"goal"`
}

func (s *Server) handleCurriculumBegin(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.curriculum.Begin(r.Context(), userParam(r), req.Goal)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCurriculumLoad(w http.ResponseWriter, r *http.Request) {
	var c domain.Curriculum
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.curriculum.Load(r.Context(), userParam(r), c)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCurriculumReset(w http.ResponseWriter, r *http.Request) {
	if err := s.curriculum.Reset(r.Context(), userParam(r)); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleModuleOpen accepts an optional JSON body carrying the module's
// generated content; it is stored verbatim with the active module.
func (s *Server) handleModuleOpen(w http.ResponseWriter, r *http.Request) {
	var content json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.curriculum.Open(r.Context(), userParam(r), chi.URLParam(r, "id"), content)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleModuleClose(w http.ResponseWriter, r *http.Request) {
	state, err := s.curriculum.Close(r.Context(), userParam(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleModuleComplete(w http.ResponseWriter, r *http.Request) {
	res, err := s.curriculum.Complete(r.Context(), userParam(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	sug, err := s.curriculum.Suggestion(r.Context(), userParam(r), r.URL.Query().Get("after"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestion": sug,
	})
}
