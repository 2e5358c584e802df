package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"prenotazioni/internal/agent"
	"prenotazioni/internal/db"
	"prenotazioni/internal/service"
)

// InfoHandler serves menu, restaurant-info, and special-request endpoints.
type InfoHandler struct {
	Menu       *service.MenuService
	Restaurant *service.RestaurantService
	Tools      *agent.Toolbox
}

func NewInfoHandler(menu *service.MenuService, restaurant *service.RestaurantService, tools *agent.Toolbox) *InfoHandler {
	return &InfoHandler{Menu: menu, Restaurant: restaurant, Tools: tools}
}

func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := h.Restaurant.Get(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *InfoHandler) SearchMenu(w http.ResponseWriter, r *http.Request) {
	var req MenuSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var items []db.MenuItem
	var err error
	if req.SearchTerm != "" {
		items, err = h.Menu.Search(r.Context(), req.SearchTerm)
	} else {
		items, err = h.Menu.List(r.Context(), req.Category)
	}
	if err != nil {
		http.Error(w, "Error searching menu", http.StatusServiceUnavailable)
		return
	}
	if items == nil {
		items = []db.MenuItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   items,
		"count":   len(items),
	})
}

func (h *InfoHandler) RestaurantInfo(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.Restaurant.Get(r.Context())
	if err != nil {
		http.Error(w, "Restaurant information not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"restaurant":    restaurant,
		"manager_phone": os.Getenv("MANAGER_PHONE"),
	})
}

func (h *InfoHandler) SpecialRequest(w http.ResponseWriter, r *http.Request) {
	var req SpecialRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Details == "" {
		http.Error(w, "details is required", http.StatusBadRequest)
		return
	}

	message := h.Tools.SpecialRequest(r.Context(), req.RequestType, req.Details)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
