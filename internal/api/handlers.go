package api

import (
	"net/http"

	"github.com/vrsandeep/koma-go/internal/gateway"
	"github.com/vrsandeep/koma-go/internal/util"
)

// handleGetVersion reports the server version. With ?min=X.Y.Z it also
// reports whether the server is at least that version.
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"version": s.app.Version}
	if min := r.URL.Query().Get("min"); min != "" {
		if !util.IsValidVersion(min) {
			RespondWithError(w, http.StatusBadRequest, "min must be a semantic version")
			return
		}
		ok, err := util.SatisfiesMinimum(s.app.Version, min)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp["compatible"] = ok
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DB().PingContext(r.Context()); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"active":    s.app.Gateway().GetInfo(),
		"available": gateway.GetAll(),
	})
}
