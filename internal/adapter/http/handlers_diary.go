package adapthttp

import (
	"net/http"

	"fooddiary/internal/domain"
)

func (s *Server) handleDiarySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)
	summary, err := s.summary.GetDailySummary(r.Context(), user.ID, s.dayQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDiaryEntries(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		category, err := categoryQuery(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		day := s.dayQuery(r)
		entries, err := s.diary.GetEntries(r.Context(), user.ID, day, category)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"day": day, "items": entries})

	case http.MethodPost:
		var body struct {
			Day              string  `json:"day"`
			MealCategory     string  `json:"mealCategory"`
			FoodItemID       int64   `json:"foodItemId"`
			EatenServingSize float64 `json:"eatenServingSize"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		category, err := domain.ParseMealCategory(body.MealCategory)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if body.Day == "" {
			body.Day = s.resolver.Today()
		}
		id, err := s.diary.AddEntry(r.Context(), user.ID, body.Day, category, body.FoodItemID, body.EatenServingSize)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDiaryEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var body struct {
			EatenServingSize float64 `json:"eatenServingSize"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.diary.EditEntry(r.Context(), user.ID, id, body.EatenServingSize); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})

	case http.MethodDelete:
		ok, err := s.diary.RemoveEntry(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "id": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDiaryRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	category, err := requiredCategory(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entries, err := s.diary.GetRecentEntries(r.Context(), userFromContext(r).ID, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (s *Server) handleDiaryCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	category, err := requiredCategory(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	day := s.dayQuery(r)
	n, err := s.diary.GetDiaryEntryCount(r.Context(), userFromContext(r).ID, day, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "category": category, "count": n})
}

func (s *Server) handleDiaryCalories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	category, err := requiredCategory(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cc, err := s.summary.GetCalorieCountByDayAndCategory(r.Context(), userFromContext(r).ID, s.dayQuery(r), category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cc)
}

func (s *Server) handleMealCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": domain.MealCategories()})
}

func requiredCategory(r *http.Request) (domain.MealCategory, error) {
	c, err := categoryQuery(r)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", domain.Invalid("category", "is required")
	}
	return *c, nil
}
