package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quranara/api/internal/application/otp"
	"github.com/quranara/api/internal/application/session"
	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/transport/http/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubOtpSvc struct {
	requestErr error
	status     *otp.Status
	verify     *otp.VerifyResult
	verifyErr  error
}

func (s *stubOtpSvc) Request(_ context.Context, _ string) error { return s.requestErr }
func (s *stubOtpSvc) Status(_ context.Context, _ string) (*otp.Status, error) {
	return s.status, nil
}
func (s *stubOtpSvc) Verify(_ context.Context, _, _ string) (*otp.VerifyResult, error) {
	return s.verify, s.verifyErr
}

type stubSessionSvc struct {
	session.Service
	loginResult *session.LoginResult
	loginErr    error
}

func (s *stubSessionSvc) Login(_ context.Context, u *domain.User) (*session.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	r := *s.loginResult
	r.User = u
	return &r, nil
}

type stubUserSvc struct {
	byPhone    *domain.User
	byPhoneErr error
	signup     *domain.User
	signupErr  error
}

func (s *stubUserSvc) Signup(_ context.Context, _ domain.SignupRequest) (*domain.User, error) {
	return s.signup, s.signupErr
}
func (s *stubUserSvc) Get(_ context.Context, _ string) (*domain.User, error) { return nil, nil }
func (s *stubUserSvc) GetByPhone(_ context.Context, _ string) (*domain.User, error) {
	return s.byPhone, s.byPhoneErr
}
func (s *stubUserSvc) UpdateAccount(_ context.Context, _ string, _ domain.UpdateAccountRequest) (*domain.User, error) {
	return nil, nil
}
func (s *stubUserSvc) ChangePassword(_ context.Context, _, _, _ string) error { return nil }
func (s *stubUserSvc) Ban(_ context.Context, _ string) error                  { return nil }
func (s *stubUserSvc) Unban(_ context.Context, _ string) error                { return nil }
func (s *stubUserSvc) List(_ context.Context, _ int32, _, _ string) ([]domain.User, string, error) {
	return nil, "", nil
}
func (s *stubUserSvc) ListBans(_ context.Context, _ int32, _ string) ([]domain.Ban, string, error) {
	return nil, "", nil
}

func activeUser() *domain.User {
	return &domain.User{
		UserID:       "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Phone:        "0912345678",
		FullName:     "Ali Ahmadi",
		Username:     "ali",
		PasswordHash: "$2a$12$hash",
		Role:         domain.RoleUser,
	}
}

func signinBody() string {
	return `{"phone":"0912345678","otp":"482113"}`
}

// --- Signin ---

func TestSignin_IssuesCredentialCookies(t *testing.T) {
	u := activeUser()
	h := NewAuthHandler(
		&stubOtpSvc{verify: &otp.VerifyResult{Matched: true}},
		&stubSessionSvc{loginResult: &session.LoginResult{Token: "signed.jwt", TTL: 90 * 24 * time.Hour}},
		&stubUserSvc{byPhone: u},
		credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", strings.NewReader(signinBody()))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names[credentials.SessionCookie])
	assert.True(t, names[credentials.UserCookie])

	var env AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.User)
	assert.Equal(t, u.Phone, env.User.Phone)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), u.UserID)
}

func TestSignin_WrongOtpIsGeneric401(t *testing.T) {
	h := NewAuthHandler(
		&stubOtpSvc{verify: &otp.VerifyResult{Matched: false}},
		&stubSessionSvc{},
		&stubUserSvc{byPhone: activeUser()},
		credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", strings.NewReader(signinBody()))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignin_UnknownPhoneIsGeneric401(t *testing.T) {
	h := NewAuthHandler(
		&stubOtpSvc{verify: &otp.VerifyResult{Matched: true}},
		&stubSessionSvc{},
		&stubUserSvc{byPhoneErr: fmt.Errorf("user not found: %w", domain.ErrNotFound)},
		credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", strings.NewReader(signinBody()))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	// Never a 404: the response must not reveal whether the account exists.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignin_BannedUserIsGeneric401(t *testing.T) {
	u := activeUser()
	u.IsBanned = true
	h := NewAuthHandler(
		&stubOtpSvc{verify: &otp.VerifyResult{Matched: true}},
		&stubSessionSvc{},
		&stubUserSvc{byPhone: u},
		credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", strings.NewReader(signinBody()))
	rec := httptest.NewRecorder()
	h.Signin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- SendOtp / OtpTime ---

func TestSendOtp_RejectsBadPhone(t *testing.T) {
	h := NewAuthHandler(&stubOtpSvc{}, &stubSessionSvc{}, &stubUserSvc{}, credentials.NewWriter(false))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/send-otp", strings.NewReader(`{"phone":"abc"}`))
	rec := httptest.NewRecorder()
	h.SendOtp(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendOtp_StoreUnavailableIs503(t *testing.T) {
	h := NewAuthHandler(
		&stubOtpSvc{requestErr: fmt.Errorf("set otp: %w", domain.ErrUnavailable)},
		&stubSessionSvc{}, &stubUserSvc{}, credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/send-otp", strings.NewReader(`{"phone":"0912345678"}`))
	rec := httptest.NewRecorder()
	h.SendOtp(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOtpTime_RequiresPhone(t *testing.T) {
	h := NewAuthHandler(&stubOtpSvc{}, &stubSessionSvc{}, &stubUserSvc{}, credentials.NewWriter(false))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/otp-time", nil)
	rec := httptest.NewRecorder()
	h.OtpTime(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOtpTime_ReportsRemaining(t *testing.T) {
	h := NewAuthHandler(
		&stubOtpSvc{status: &otp.Status{Expired: false, TTL: 75}},
		&stubSessionSvc{}, &stubUserSvc{}, credentials.NewWriter(false),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/otp-time?phone=0912345678", nil)
	rec := httptest.NewRecorder()
	h.OtpTime(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status otp.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 75, status.TTL)
	assert.False(t, status.Expired)
}
