// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vrsandeep/koma-go/internal/models"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithEngineError maps an engine error onto a status code. The body
// carries the same message the engine stores in its error slots.
func respondWithEngineError(w http.ResponseWriter, err error) {
	var (
		gwErr *models.GatewayError
		pErr  *models.PersistenceError
	)
	switch {
	case errors.Is(err, models.ErrInvalidCount):
		RespondWithError(w, http.StatusUnprocessableEntity, models.Describe(err))
	case errors.Is(err, models.ErrNotSaved):
		RespondWithError(w, http.StatusNotFound, "Manga is not in the collection")
	case errors.As(err, &gwErr):
		RespondWithError(w, http.StatusBadGateway, models.Describe(err))
	case errors.As(err, &pErr):
		RespondWithError(w, http.StatusInternalServerError, models.Describe(err))
	default:
		RespondWithError(w, http.StatusInternalServerError, models.Describe(err))
	}
}
