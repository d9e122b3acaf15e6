package adapthttp

import (
	"net/http"

	"fooddiary/internal/domain"
)

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		g, err := s.goals.GetGoals(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)

	case http.MethodPatch:
		var u domain.GoalUpdate
		if err := parseJSON(r, &u); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		g, err := s.goals.UpdateGoals(r.Context(), user.ID, u)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)
	g, err := s.goals.GetGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	current, err := s.weight.GetCurrentWeight(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"goals":         g,
		"currentWeight": current,
	})
}
