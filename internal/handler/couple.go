package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mwhitlock/tandem/internal/store"
	ws "github.com/mwhitlock/tandem/internal/websocket"
)

type CoupleHandler struct {
	couples *store.CoupleStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewCoupleHandler(cs *store.CoupleStore, hub *ws.Hub, logger *slog.Logger) *CoupleHandler {
	return &CoupleHandler{couples: cs, hub: hub, logger: logger}
}

// Create handles createCouple.
func (h *CoupleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User1ID int64 `json:"user1_id"`
		User2ID int64 `json:"user2_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.User1ID == 0 || req.User2ID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user1_id and user2_id are required"})
		return
	}
	if req.User1ID == req.User2ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a couple needs two distinct users"})
		return
	}

	couple, err := h.couples.Create(req.User1ID, req.User2ID)
	if err != nil {
		writeStoreError(w, h.logger, "create couple", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("couple", "created", couple.ID, nil))
	writeJSON(w, http.StatusCreated, couple)
}
