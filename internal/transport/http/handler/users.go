package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quranara/api/internal/application/session"
	"github.com/quranara/api/internal/application/user"
)

// UserHandler handles the admin user-management endpoints.
type UserHandler struct {
	userSvc    user.Service
	sessionSvc session.Service
}

func NewUserHandler(userSvc user.Service, sessionSvc session.Service) *UserHandler {
	return &UserHandler{userSvc: userSvc, sessionSvc: sessionSvc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	users, next, err := h.userSvc.List(r.Context(), limit, cursor, r.URL.Query().Get("search"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedUsersEnvelope{Data: users, NextCursor: next})
}

func (h *UserHandler) Ban(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	if err := h.userSvc.Ban(r.Context(), req.User); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "user banned successfully"})
}

func (h *UserHandler) Unban(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ban string `json:"ban"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ban == "" {
		writeError(w, http.StatusBadRequest, "ban is required")
		return
	}
	if err := h.userSvc.Unban(r.Context(), req.Ban); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user unbanned successfully"})
}

func (h *UserHandler) ListBans(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	bans, next, err := h.userSvc.ListBans(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedBansEnvelope{Data: bans, NextCursor: next})
}

// ListSessions lists the user ids holding a live session record.
func (h *UserHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.sessionSvc.ActiveUserIDs(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_ids": ids})
}

func parsePage(r *http.Request) (int32, string) {
	limit := int32(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = int32(n)
		}
	}
	return limit, r.URL.Query().Get("cursor")
}
