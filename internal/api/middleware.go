package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const mangaIDContextKey = contextKey("manga_id")

// MangaIDMiddleware parses the {id} URL parameter and injects it into the
// request's context for downstream handlers to use.
func MangaIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			RespondWithError(w, http.StatusBadRequest, "Invalid manga ID")
			return
		}
		ctx := context.WithValue(r.Context(), mangaIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func mangaIDFromContext(r *http.Request) int {
	id, _ := r.Context().Value(mangaIDContextKey).(int)
	return id
}

// anchorParam reads the ?anchor= query parameter.
func anchorParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("anchor"))
	return id, err == nil
}
