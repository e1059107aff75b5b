package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quranara/api/internal/application/session"
	"github.com/quranara/api/internal/application/user"
	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/transport/http/credentials"
	"github.com/quranara/api/internal/transport/http/middleware"
)

// MeHandler handles the authenticated user's own account endpoints.
type MeHandler struct {
	userSvc    user.Service
	sessionSvc session.Service
	creds      *credentials.Writer
}

func NewMeHandler(userSvc user.Service, sessionSvc session.Service, creds *credentials.Writer) *MeHandler {
	return &MeHandler{userSvc: userSvc, sessionSvc: sessionSvc, creds: creds}
}

// UpdateAccount mutates the public profile and resyncs the snapshot cookie
// against the registry's remaining TTL. The token and the registry entry are
// untouched.
func (h *MeHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.userSvc.UpdateAccount(r.Context(), u.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}

	ttl, err := h.sessionSvc.RemainingTTL(r.Context(), u.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if ttl > 0 {
		if err := h.creds.ResyncSnapshot(w, updated.Snapshot(), ttl); err != nil {
			slog.Warn("failed to resync snapshot cookie", "user_id", u.UserID, "err", err)
		}
	}

	snapshot := updated.Snapshot()
	writeJSON(w, http.StatusOK, AuthEnvelope{User: &snapshot})
}

func (h *MeHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Past string `json:"past"`
		New  string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Past == "" || req.New == "" {
		writeError(w, http.StatusBadRequest, "past and new passwords are required")
		return
	}
	if err := h.userSvc.ChangePassword(r.Context(), u.UserID, req.Past, req.New); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password changed successfully"})
}
