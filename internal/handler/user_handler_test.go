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

type mockUserCommander struct {
	updateFn func(cqrs.UpdateProfileCommand) (*models.ProfileView, error)
	avatarFn func(cqrs.UploadAvatarCommand) (*models.ProfileView, error)
}

func (m *mockUserCommander) UpdateProfile(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) UploadAvatar(cmd cqrs.UploadAvatarCommand) (*models.ProfileView, error) {
	if m.avatarFn != nil {
		return m.avatarFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockUserQuerier struct {
	getUserFn    func(cqrs.GetUserQuery) (*models.UserView, error)
	getProfileFn func(cqrs.GetProfileQuery) (*models.ProfileView, error)
	searchFn     func(cqrs.SearchUsersQuery) ([]models.UserView, error)
	checkFn      func(cqrs.CheckUsernameQuery) (bool, error)
}

func (m *mockUserQuerier) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getUserFn != nil {
		return m.getUserFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) GetProfile(q cqrs.GetProfileQuery) (*models.ProfileView, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) SearchUsers(q cqrs.SearchUsersQuery) ([]models.UserView, error) {
	if m.searchFn != nil {
		return m.searchFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) CheckUsername(q cqrs.CheckUsernameQuery) (bool, error) {
	if m.checkFn != nil {
		return m.checkFn(q)
	}
	return false, fmt.Errorf("not configured")
}

// ---- helpers ----

func newUserTestRouter(cmds UserCommander, qrys UserQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthUser(authUserID))
	h := NewUserHandler(cmds, qrys)
	v1 := r.Group("/v1/users")
	v1.GET("/me", h.GetMe)
	v1.PATCH("/me", h.UpdateProfile)
	v1.POST("/me/avatar", h.UploadAvatar)
	v1.GET("/search", h.SearchUsers)
	v1.GET("/check-username", h.CheckUsername)
	v1.GET("/:userId", h.GetUser)
	return r
}

// ---- test data ----

var uTestUserView = &models.UserView{
	ID: "usr-001", Username: "alice", DisplayName: "Alice",
}

var uTestProfileView = &models.ProfileView{
	ID: "usr-001", Username: "alice", DisplayName: "Alice",
	Email: "alice@example.com", PhoneNumber: "+4915112345678",
	CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

// ---- tests ----

func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		urlUserID      string
		getUserFn      func(cqrs.GetUserQuery) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:      "success - public profile",
			urlUserID: "usr-001",
			getUserFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
				return uTestUserView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "not found - user does not exist",
			urlUserID: "usr-999",
			getUserFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
				return nil, fmt.Errorf("user not found")
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{getUserFn: tt.getUserFn}, "usr-000")
			w := doRequest(router, http.MethodGet, "/v1/users/"+tt.urlUserID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetMe(t *testing.T) {
	qrys := &mockUserQuerier{
		getProfileFn: func(q cqrs.GetProfileQuery) (*models.ProfileView, error) {
			if q.UserID != "usr-001" {
				t.Errorf("expected query for usr-001, got %s", q.UserID)
			}
			return uTestProfileView, nil
		},
	}
	router := newUserTestRouter(&mockUserCommander{}, qrys, "usr-001")
	w := doRequest(router, http.MethodGet, "/v1/users/me", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d; body: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestSearchUsers(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		searchFn       func(cqrs.SearchUsersQuery) ([]models.UserView, error)
		expectedStatus int
	}{
		{
			name: "success - matches found",
			url:  "/v1/users/search?q=ali",
			searchFn: func(q cqrs.SearchUsersQuery) ([]models.UserView, error) {
				return []models.UserView{*uTestUserView}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "success - empty result is an empty list",
			url:  "/v1/users/search?q=zzz",
			searchFn: func(q cqrs.SearchUsersQuery) ([]models.UserView, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - missing query",
			url:            "/v1/users/search",
			searchFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{searchFn: tt.searchFn}, "usr-001")
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCheckUsername(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		checkFn        func(cqrs.CheckUsernameQuery) (bool, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "available username",
			url:            "/v1/users/check-username?username=newname",
			checkFn:        func(q cqrs.CheckUsernameQuery) (bool, error) { return true, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"available":true}`,
		},
		{
			name:           "taken username",
			url:            "/v1/users/check-username?username=alice",
			checkFn:        func(q cqrs.CheckUsernameQuery) (bool, error) { return false, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"available":false}`,
		},
		{
			name:           "bad request - missing username",
			url:            "/v1/users/check-username",
			checkFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{checkFn: tt.checkFn}, "usr-001")
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("[%s] expected body %s, got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		updateFn       func(cqrs.UpdateProfileCommand) (*models.ProfileView, error)
		expectedStatus int
	}{
		{
			name:           "success - new display name",
			body:           map[string]interface{}{"displayName": "Alice B"},
			updateFn:       func(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) { return uTestProfileView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "conflict - username already taken",
			body: map[string]interface{}{"username": "bob"},
			updateFn: func(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) {
				return nil, fmt.Errorf("username already taken")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "bad request - invalid username format",
			body: map[string]interface{}{"username": "Bad Name!"},
			updateFn: func(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) {
				return nil, fmt.Errorf("invalid username")
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{updateFn: tt.updateFn}, &mockUserQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPatch, "/v1/users/me", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUploadAvatar(t *testing.T) {
	tests := []struct {
		name           string
		image          []byte
		avatarFn       func(cqrs.UploadAvatarCommand) (*models.ProfileView, error)
		expectedStatus int
	}{
		{
			name:           "success - avatar stored",
			image:          []byte("fake image bytes"),
			avatarFn:       func(cmd cqrs.UploadAvatarCommand) (*models.ProfileView, error) { return uTestProfileView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:  "bad request - not an image",
			image: []byte("not an image"),
			avatarFn: func(cmd cqrs.UploadAvatarCommand) (*models.ProfileView, error) {
				return nil, fmt.Errorf("invalid image")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing image field",
			image:          nil,
			avatarFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{avatarFn: tt.avatarFn}, &mockUserQuerier{}, "usr-001")
			w := doImageRequest(router, "/v1/users/me/avatar", tt.image, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
