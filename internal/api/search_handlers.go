package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vrsandeep/koma-go/internal/models"
)

func (s *Server) handleGetSearch(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.search.Snapshot())
}

// handleSearch replaces the working filter and searches. An empty filter
// clears the search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	filter := models.NewSearchFilter()
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	s.search.SetFilter(filter)
	if err := s.search.SearchIfNeeded(r.Context()); err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.search.Snapshot())
}

func (s *Server) handleSearchMore(w http.ResponseWriter, r *http.Request) {
	anchor, ok := anchorParam(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid anchor")
		return
	}
	loaded, err := s.search.LoadMoreIfNeeded(r.Context(), anchor)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"loaded": loaded,
		"search": s.search.Snapshot(),
	})
}

func (s *Server) handleClearSearch(w http.ResponseWriter, r *http.Request) {
	s.search.ClearSearch()
	RespondWithJSON(w, http.StatusOK, s.search.Snapshot())
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.search.History())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.search.ClearHistory(r.Context()); err != nil {
		respondWithEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchFromHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.search.HistoryEntry(chi.URLParam(r, "entryID"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "History entry not found")
		return
	}
	if err := s.search.SearchFromHistory(r.Context(), entry); err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.search.Snapshot())
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry := models.HistoryEntry{ID: chi.URLParam(r, "entryID")}
	if err := s.search.DeleteHistoryEntry(r.Context(), entry); err != nil {
		respondWithEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
