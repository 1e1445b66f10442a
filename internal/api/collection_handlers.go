package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vrsandeep/koma-go/internal/models"
)

func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RefreshSaved(r.Context()); err != nil {
		respondWithEngineError(w, err)
		return
	}
	items := s.catalog.Saved()
	if r.URL.Query().Get("sort") == "title" {
		items = s.catalog.SavedByTitle()
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"stats": s.catalog.CollectionStats(),
	})
}

// handleSaveManga accepts a full manga snapshot, or just {"id": N} for an
// item currently shown in the browse, curated or search lists.
func (s *Server) handleSaveManga(w http.ResponseWriter, r *http.Request) {
	var manga models.Manga
	if err := json.NewDecoder(r.Body).Decode(&manga); err != nil || manga.ID <= 0 {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if manga.Title == "" {
		loaded, ok := s.findLoaded(manga.ID)
		if !ok {
			RespondWithError(w, http.StatusNotFound, "Manga not found in any loaded list")
			return
		}
		manga = loaded
	}

	if err := s.catalog.SaveItem(r.Context(), manga); err != nil {
		respondWithEngineError(w, err)
		return
	}
	s.respondWithItemState(w, r.Context(), http.StatusCreated, manga.ID)
}

func (s *Server) handleGetItemState(w http.ResponseWriter, r *http.Request) {
	s.respondWithItemState(w, r.Context(), http.StatusOK, mangaIDFromContext(r))
}

func (s *Server) handleRemoveManga(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RemoveItem(r.Context(), models.Manga{ID: mangaIDFromContext(r)}); err != nil {
		respondWithEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type countPayload struct {
	Value *int `json:"value"`
}

func (s *Server) handleSetOwned(w http.ResponseWriter, r *http.Request) {
	s.handleSetCount(w, r, s.catalog.SetOwnedCount)
}

func (s *Server) handleSetRead(w http.ResponseWriter, r *http.Request) {
	s.handleSetCount(w, r, s.catalog.SetReadCount)
}

func (s *Server) handleSetCount(w http.ResponseWriter, r *http.Request, set func(context.Context, models.Manga, int) error) {
	var payload countPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Value == nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	id := mangaIDFromContext(r)
	if err := set(r.Context(), models.Manga{ID: id}, *payload.Value); err != nil {
		respondWithEngineError(w, err)
		return
	}
	s.respondWithItemState(w, r.Context(), http.StatusOK, id)
}

type catalogStep int

const (
	catalogStepIncrementOwned catalogStep = iota
	catalogStepDecrementOwned
	catalogStepIncrementRead
	catalogStepDecrementRead
)

func (s *Server) handleStep(step catalogStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := models.Manga{ID: mangaIDFromContext(r)}
		var (
			changed bool
			err     error
		)
		switch step {
		case catalogStepIncrementOwned:
			changed, err = s.catalog.IncrementOwned(r.Context(), item)
		case catalogStepDecrementOwned:
			changed, err = s.catalog.DecrementOwned(r.Context(), item)
		case catalogStepIncrementRead:
			changed, err = s.catalog.IncrementRead(r.Context(), item)
		case catalogStepDecrementRead:
			changed, err = s.catalog.DecrementRead(r.Context(), item)
		}
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		st, err := s.catalog.LoadItemState(r.Context(), item)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]interface{}{"changed": changed, "state": st})
	}
}

func (s *Server) respondWithItemState(w http.ResponseWriter, ctx context.Context, code, id int) {
	st, err := s.catalog.LoadItemState(ctx, models.Manga{ID: id})
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	RespondWithJSON(w, code, st)
}

// findLoaded looks an id up in the lists the engines currently hold.
func (s *Server) findLoaded(id int) (models.Manga, bool) {
	lists := [][]models.Manga{
		s.catalog.Browse().Items,
		s.catalog.Curated().Items,
		s.search.Snapshot().Results.Items,
	}
	for _, items := range lists {
		for _, m := range items {
			if m.ID == id {
				return m, true
			}
		}
	}
	return models.Manga{}, false
}
