package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mwhitlock/tandem/internal/store"
	ws "github.com/mwhitlock/tandem/internal/websocket"
)

type UserHandler struct {
	users  *store.UserStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewUserHandler(us *store.UserStore, hub *ws.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: us, hub: hub, logger: logger}
}

// Create handles createUser.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}

	user, err := h.users.Create(req.Name, req.Email)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": fmt.Sprintf("email %s already in use", req.Email)})
			return
		}
		writeStoreError(w, h.logger, "create user", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("user", "created", user.ID, nil))
	writeJSON(w, http.StatusCreated, user)
}

// Get handles getUser.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		writeStoreError(w, h.logger, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetPIN handles setUserPin.
func (h *UserHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		PIN    string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.PIN) < 4 || len(req.PIN) > 8 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be 4-8 digits"})
		return
	}

	if err := h.users.SetPIN(req.UserID, req.PIN); err != nil {
		writeStoreError(w, h.logger, "set pin", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyPIN handles verifyUserPin.
func (h *UserHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		PIN    string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	valid, err := h.users.VerifyPIN(req.UserID, req.PIN)
	if err != nil {
		writeStoreError(w, h.logger, "verify pin", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
