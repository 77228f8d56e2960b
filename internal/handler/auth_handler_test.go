package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/models"
)

// ---- mock implementations ----

type mockAuthCommander struct {
	registerFn    func(cqrs.RegisterUserCommand) (*models.AuthView, error)
	googleLoginFn func(cqrs.GoogleLoginCommand) (*models.AuthView, error)
}

func (m *mockAuthCommander) Register(cmd cqrs.RegisterUserCommand) (*models.AuthView, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAuthCommander) GoogleLogin(cmd cqrs.GoogleLoginCommand) (*models.AuthView, error) {
	if m.googleLoginFn != nil {
		return m.googleLoginFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAuthQuerier struct {
	loginFn   func(cqrs.LoginCommand) (*models.AuthView, error)
	refreshFn func(cqrs.RefreshTokenCommand) (*models.AuthView, error)
}

func (m *mockAuthQuerier) Login(cmd cqrs.LoginCommand) (*models.AuthView, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) RefreshToken(cmd cqrs.RefreshTokenCommand) (*models.AuthView, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newAuthTestRouter(cmds AuthCommander, qrys AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(cmds, qrys)
	v1 := r.Group("/v1/auth")
	v1.POST("/register", h.Register)
	v1.POST("/login", h.Login)
	v1.POST("/google", h.GoogleLogin)
	v1.POST("/refresh", h.Refresh)
	return r
}

// ---- test data ----

var aTestAuthView = &models.AuthView{
	User: models.ProfileView{
		ID: "usr-001", Username: "alice", DisplayName: "Alice",
		Email: "alice@example.com", PhoneNumber: "+4915112345678",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	},
	AccessToken:  "access-token",
	RefreshToken: "refresh-token",
}

func aValidRegisterBody() map[string]interface{} {
	return map[string]interface{}{
		"username": "alice", "displayName": "Alice",
		"email": "alice@example.com", "phoneNumber": "+4915112345678",
		"password": "securepass123",
	}
}

// ---- tests ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterUserCommand) (*models.AuthView, error)
		expectedStatus int
	}{
		{
			name:           "success - creates account and returns tokens",
			body:           aValidRegisterBody(),
			registerFn:     func(cmd cqrs.RegisterUserCommand) (*models.AuthView, error) { return aTestAuthView, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{"email": "alice@example.com"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - phone number not E.164",
			body:           map[string]interface{}{"username": "alice", "displayName": "Alice", "email": "alice@example.com", "phoneNumber": "0151-12345678", "password": "securepass123"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - username already taken",
			body: aValidRegisterBody(),
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("username already taken")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "conflict - email already registered",
			body: aValidRegisterBody(),
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("email already registered")
			},
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{registerFn: tt.registerFn}, &mockAuthQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (*models.AuthView, error)
		expectedStatus int
	}{
		{
			name:           "success - valid credentials",
			body:           map[string]interface{}{"email": "alice@example.com", "password": "securepass123"},
			loginFn:        func(cmd cqrs.LoginCommand) (*models.AuthView, error) { return aTestAuthView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - wrong password",
			body: map[string]interface{}{"email": "alice@example.com", "password": "wrongpass"},
			loginFn: func(cmd cqrs.LoginCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("invalid credentials")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unauthorized - unknown email",
			body: map[string]interface{}{"email": "ghost@example.com", "password": "securepass123"},
			loginFn: func(cmd cqrs.LoginCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("user not found")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]interface{}{"email": "alice@example.com"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGoogleLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		googleLoginFn  func(cqrs.GoogleLoginCommand) (*models.AuthView, error)
		expectedStatus int
	}{
		{
			name:           "success - valid google token",
			body:           map[string]interface{}{"idToken": "valid-google-token"},
			googleLoginFn:  func(cmd cqrs.GoogleLoginCommand) (*models.AuthView, error) { return aTestAuthView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - invalid google token",
			body: map[string]interface{}{"idToken": "bogus"},
			googleLoginFn: func(cmd cqrs.GoogleLoginCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("invalid google token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]interface{}{},
			googleLoginFn:  nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{googleLoginFn: tt.googleLoginFn}, &mockAuthQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/google", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		refreshFn      func(cqrs.RefreshTokenCommand) (*models.AuthView, error)
		expectedStatus int
	}{
		{
			name:           "success - valid refresh token",
			body:           map[string]interface{}{"refreshToken": "valid-refresh-token"},
			refreshFn:      func(cmd cqrs.RefreshTokenCommand) (*models.AuthView, error) { return aTestAuthView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - expired refresh token",
			body: map[string]interface{}{"refreshToken": "expired"},
			refreshFn: func(cmd cqrs.RefreshTokenCommand) (*models.AuthView, error) {
				return nil, fmt.Errorf("invalid refresh token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]interface{}{},
			refreshFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{refreshFn: tt.refreshFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/refresh", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
