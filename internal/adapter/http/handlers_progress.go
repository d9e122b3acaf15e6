package adapthttp

import (
	"net/http"
)

func (s *Server) handleProgressDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFromContext(r)
	days := intQuery(r, "days", 7)
	if days > 366 {
		days = 366
	}

	points, err := s.progress.GetDaily(r.Context(), user.ID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"today": s.resolver.Today(),
		"items": points,
	})
}
