package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quranara/api/internal/application/otp"
	"github.com/quranara/api/internal/application/session"
	"github.com/quranara/api/internal/application/user"
	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/pkg/validate"
	"github.com/quranara/api/internal/transport/http/credentials"
	"github.com/quranara/api/internal/transport/http/middleware"
)

// AuthHandler exposes the OTP and session endpoints: send-otp, otp-time,
// signup, signin, me, logout.
type AuthHandler struct {
	otpSvc     otp.Service
	sessionSvc session.Service
	userSvc    user.Service
	creds      *credentials.Writer
}

func NewAuthHandler(otpSvc otp.Service, sessionSvc session.Service, userSvc user.Service, creds *credentials.Writer) *AuthHandler {
	return &AuthHandler{otpSvc: otpSvc, sessionSvc: sessionSvc, userSvc: userSvc, creds: creds}
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required,numeric,min=10,max=13"`
}

type signinRequest struct {
	Phone string `json:"phone" validate:"required,numeric,min=10,max=13"`
	Otp   string `json:"otp" validate:"required"`
}

func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.otpSvc.Request(r.Context(), req.Phone); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "otp sent successfully"})
}

// OtpTime reports the remaining lifetime of a pending OTP so the client can
// drive its resend cooldown. It never consumes the code.
func (h *AuthHandler) OtpTime(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}
	status, err := h.otpSvc.Status(r.Context(), phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.consumeOtp(w, r, req.Phone, req.Otp) {
		return
	}
	u, err := h.userSvc.Signup(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	h.issueCredentials(w, r, u, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.userSvc.GetByPhone(r.Context(), req.Phone)
	if errors.Is(err, domain.ErrNotFound) {
		httpError(w, fmt.Errorf("unknown phone: %w", domain.ErrUnauthorized))
		return
	}
	if err != nil {
		httpError(w, err)
		return
	}
	if u.IsBanned {
		httpError(w, fmt.Errorf("banned user: %w", domain.ErrUnauthorized))
		return
	}
	if !h.consumeOtp(w, r, req.Phone, req.Otp) {
		return
	}
	h.issueCredentials(w, r, u, http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	snapshot := u.Snapshot()
	writeJSON(w, http.StatusOK, AuthEnvelope{User: &snapshot})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.sessionSvc.Logout(r.Context(), u.UserID); err != nil {
		httpError(w, err)
		return
	}
	h.creds.Clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

// consumeOtp verifies and consumes the submitted code, writing the rejection
// response itself when verification fails. OTP mismatch and expiry collapse
// into the same generic unauthorized.
func (h *AuthHandler) consumeOtp(w http.ResponseWriter, r *http.Request, phone, code string) bool {
	result, err := h.otpSvc.Verify(r.Context(), phone, code)
	if err != nil {
		httpError(w, err)
		return false
	}
	if !result.Matched {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func (h *AuthHandler) issueCredentials(w http.ResponseWriter, r *http.Request, u *domain.User, status int) {
	result, err := h.sessionSvc.Login(r.Context(), u)
	if err != nil {
		httpError(w, err)
		return
	}
	if err := h.creds.Set(w, result.Token, u.Snapshot(), result.TTL); err != nil {
		httpError(w, err)
		return
	}
	snapshot := u.Snapshot()
	writeJSON(w, status, AuthEnvelope{User: &snapshot})
}
