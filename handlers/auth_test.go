package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"hotelpms/middleware"
	"hotelpms/models"
	"hotelpms/services/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubAuthService lets each test script the service layer's answer.
type stubAuthService struct {
	loginFn         func(identifier, password string, device models.Device) (*auth.AuthResponse, error)
	verifyOTPFn     func(pendingToken, otp string, device models.Device) (*auth.AuthResponse, error)
	verifySessionFn func(token string) (*models.User, error)
	listFn          func() ([]auth.AdminDevice, error)
	approveFn       func(deviceID, approvedBy string) error
	blockFn         func(deviceID, reason string) error
	unblockFn       func(deviceID string) error
}

func (s *stubAuthService) Login(identifier, password string, device models.Device) (*auth.AuthResponse, error) {
	return s.loginFn(identifier, password, device)
}

func (s *stubAuthService) VerifyOTP(pendingToken, otp string, device models.Device) (*auth.AuthResponse, error) {
	return s.verifyOTPFn(pendingToken, otp, device)
}

func (s *stubAuthService) VerifySession(token string) (*models.User, error) {
	return s.verifySessionFn(token)
}

func (s *stubAuthService) ListDevices() ([]auth.AdminDevice, error) { return s.listFn() }
func (s *stubAuthService) ApproveDevice(deviceID, approvedBy string) error {
	return s.approveFn(deviceID, approvedBy)
}
func (s *stubAuthService) BlockDevice(deviceID, reason string) error {
	return s.blockFn(deviceID, reason)
}
func (s *stubAuthService) UnblockDevice(deviceID string) error { return s.unblockFn(deviceID) }

func authRouter(svc auth.AuthService) *gin.Engine {
	r := gin.New()
	h := NewAuthHandler(svc)
	fp := auth.NewFingerprinter()
	r.POST("/login", middleware.DeviceDetailsMiddleware(fp), h.LoginHandler)
	r.POST("/verify-otp", middleware.DeviceDetailsMiddleware(fp), h.VerifyOTPHandler)
	r.GET("/verify", h.VerifySessionHandler)
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginHandlerSuccess(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(identifier, password string, device models.Device) (*auth.AuthResponse, error) {
			assert.Equal(t, "frontdesk", identifier)
			assert.NotEmpty(t, device.DeviceID)
			return &auth.AuthResponse{Token: "session-token", User: &models.User{ID: "user-1"}}, nil
		},
	}

	w := postJSON(authRouter(svc), "/login", gin.H{"identifier": "frontdesk", "password": "pw"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "session-token", body["token"])
}

func TestLoginHandlerOTPPending(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
			return nil, auth.OTPPendingError{PendingToken: "pending-token", MaskedEmail: "f***@grandhotel.example"}
		},
	}

	w := postJSON(authRouter(svc), "/login", gin.H{"identifier": "frontdesk", "password": "pw"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["requiresOTP"])
	assert.Equal(t, "pending-token", body["pendingToken"])
	assert.Equal(t, "f***@grandhotel.example", body["maskedDestination"])
}

func TestLoginHandlerDeviceLimit(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
			return nil, auth.DeviceLimitError{Max: 2}
		},
	}

	w := postJSON(authRouter(svc), "/login", gin.H{"identifier": "frontdesk", "password": "pw"})

	require.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Maximum allowed devices (2) reached.", body["message"])
	assert.Equal(t, "MAX_DEVICES", body["code"])
}

func TestLoginHandlerAuthFailures(t *testing.T) {
	for _, sentinel := range []error{
		auth.ErrInvalidCredentials,
		auth.ErrAccountInactive,
		auth.ErrAccountLocked,
	} {
		svc := &stubAuthService{
			loginFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
				return nil, sentinel
			},
		}

		w := postJSON(authRouter(svc), "/login", gin.H{"identifier": "frontdesk", "password": "pw"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, sentinel.Error(), decodeBody(t, w)["message"])
	}
}

func TestLoginHandlerMissingFields(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}

	w := postJSON(authRouter(svc), "/login", gin.H{"identifier": "frontdesk"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Identifier and password are required", decodeBody(t, w)["message"])
}

func TestVerifyOTPHandlerSuccess(t *testing.T) {
	svc := &stubAuthService{
		verifyOTPFn: func(pendingToken, otp string, device models.Device) (*auth.AuthResponse, error) {
			assert.Equal(t, "pending-token", pendingToken)
			assert.Equal(t, "123456", otp)
			return &auth.AuthResponse{Token: "session-token", User: &models.User{ID: "user-1"}}, nil
		},
	}

	w := postJSON(authRouter(svc), "/verify-otp", gin.H{"pendingToken": "pending-token", "otp": "123456"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "session-token", body["token"])
}

func TestVerifyOTPHandlerRejections(t *testing.T) {
	for _, sentinel := range []error{
		auth.ErrInvalidPendingToken,
		auth.ErrInvalidOTP,
		auth.ErrAccountInactive,
	} {
		svc := &stubAuthService{
			verifyOTPFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
				return nil, sentinel
			},
		}

		w := postJSON(authRouter(svc), "/verify-otp", gin.H{"pendingToken": "x", "otp": "000000"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestVerifyOTPHandlerCeiling(t *testing.T) {
	svc := &stubAuthService{
		verifyOTPFn: func(string, string, models.Device) (*auth.AuthResponse, error) {
			return nil, auth.DeviceLimitError{Max: 2}
		},
	}

	w := postJSON(authRouter(svc), "/verify-otp", gin.H{"pendingToken": "x", "otp": "000000"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "MAX_DEVICES", decodeBody(t, w)["code"])
}

func TestVerifySessionHandler(t *testing.T) {
	svc := &stubAuthService{
		verifySessionFn: func(token string) (*models.User, error) {
			if token == "good" {
				return &models.User{ID: "user-1", Username: "frontdesk"}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	r := authRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/verify", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No header at all.
	req = httptest.NewRequest(http.MethodGet, "/verify", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
