package api

import (
	"net/http"
)

// handleGetBrowse performs the first load on demand and returns the feed.
// Load failures are reported in the snapshot's error field.
func (s *Server) handleGetBrowse(w http.ResponseWriter, r *http.Request) {
	_ = s.catalog.LoadIfNeeded(r.Context())
	RespondWithJSON(w, http.StatusOK, s.catalog.Browse())
}

func (s *Server) handleBrowseMore(w http.ResponseWriter, r *http.Request) {
	anchor, ok := anchorParam(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid anchor")
		return
	}
	loaded, err := s.catalog.LoadMoreIfNeeded(r.Context(), anchor)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"loaded": loaded,
		"browse": s.catalog.Browse(),
	})
}

func (s *Server) handleBrowseRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Restart(r.Context()); err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.catalog.Browse())
}

func (s *Server) handleGetCurated(w http.ResponseWriter, r *http.Request) {
	_ = s.catalog.LoadIfNeeded(r.Context())
	RespondWithJSON(w, http.StatusOK, s.catalog.Curated())
}

func (s *Server) handleCuratedRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RefreshCurated(r.Context()); err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.catalog.Curated())
}
