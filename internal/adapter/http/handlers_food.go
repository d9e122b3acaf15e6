package adapthttp

import (
	"net/http"

	"fooddiary/internal/domain"
)

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.food.SearchByName(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			Name                string  `json:"name"`
			StandardServingSize float64 `json:"standardServingSize"`
			CaloriesPerServing  float64 `json:"caloriesPerServing"`
			ServingUnit         string  `json:"servingUnit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		unit, err := domain.ParseServingUnit(body.ServingUnit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		item, err := s.food.CreateFoodItem(r.Context(), domain.NewFoodItem{
			Name:                body.Name,
			StandardServingSize: body.StandardServingSize,
			CaloriesPerServing:  body.CaloriesPerServing,
			ServingUnit:         unit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	item, err := s.food.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleFoodBarcode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Barcode string `json:"barcode"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := s.food.GetOrCreateByBarcode(r.Context(), body.Barcode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
