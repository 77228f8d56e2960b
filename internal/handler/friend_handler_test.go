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

type mockFriendCommander struct {
	sendFn   func(cqrs.SendFriendRequestCommand) (*models.FriendRequest, error)
	acceptFn func(cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error)
	rejectFn func(cqrs.RejectFriendRequestCommand) (*models.FriendRequest, error)
}

func (m *mockFriendCommander) SendRequest(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
	if m.sendFn != nil {
		return m.sendFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockFriendCommander) AcceptRequest(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
	if m.acceptFn != nil {
		return m.acceptFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockFriendCommander) RejectRequest(cmd cqrs.RejectFriendRequestCommand) (*models.FriendRequest, error) {
	if m.rejectFn != nil {
		return m.rejectFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockFriendQuerier struct {
	listFriendsFn  func(cqrs.ListFriendsQuery) ([]models.UserView, error)
	listRequestsFn func(cqrs.ListFriendRequestsQuery) ([]models.FriendRequestView, error)
}

func (m *mockFriendQuerier) ListFriends(q cqrs.ListFriendsQuery) ([]models.UserView, error) {
	if m.listFriendsFn != nil {
		return m.listFriendsFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockFriendQuerier) ListRequests(q cqrs.ListFriendRequestsQuery) ([]models.FriendRequestView, error) {
	if m.listRequestsFn != nil {
		return m.listRequestsFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newFriendTestRouter(cmds FriendCommander, qrys FriendQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthUser(authUserID))
	h := NewFriendHandler(cmds, qrys)
	v1 := r.Group("/v1/friends")
	v1.GET("", h.ListFriends)
	v1.GET("/requests", h.ListRequests)
	v1.POST("/requests", h.SendRequest)
	v1.POST("/requests/:requestId/accept", h.AcceptRequest)
	v1.POST("/requests/:requestId/reject", h.RejectRequest)
	return r
}

// ---- test data ----

var fTestRequest = &models.FriendRequest{
	ID: "frq-001", SenderID: "usr-001", ReceiverID: "usr-002",
	Status: models.RequestPending, SentAt: time.Now(),
}

// ---- tests ----

func TestSendFriendRequest(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		sendFn         func(cqrs.SendFriendRequestCommand) (*models.FriendRequest, error)
		expectedStatus int
	}{
		{
			name:           "success - request sent",
			body:           map[string]interface{}{"receiverId": "usr-002"},
			sendFn:         func(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) { return fTestRequest, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name: "bad request - sending to yourself",
			body: map[string]interface{}{"receiverId": "usr-001"},
			sendFn: func(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("cannot send friend request to yourself")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not found - receiver does not exist",
			body: map[string]interface{}{"receiverId": "usr-999"},
			sendFn: func(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("receiver not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "conflict - duplicate request",
			body: map[string]interface{}{"receiverId": "usr-002"},
			sendFn: func(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("friend request already exists")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "conflict - already friends",
			body: map[string]interface{}{"receiverId": "usr-002"},
			sendFn: func(cmd cqrs.SendFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("already friends")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - missing receiver",
			body:           map[string]interface{}{},
			sendFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newFriendTestRouter(&mockFriendCommander{sendFn: tt.sendFn}, &mockFriendQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/friends/requests", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	tests := []struct {
		name           string
		acceptFn       func(cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error)
		expectedStatus int
	}{
		{
			name: "success - request accepted",
			acceptFn: func(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
				accepted := *fTestRequest
				accepted.Status = models.RequestAccepted
				return &accepted, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - not the receiver",
			acceptFn: func(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("forbidden")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - unknown request",
			acceptFn: func(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("friend request not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "conflict - already handled",
			acceptFn: func(cmd cqrs.AcceptFriendRequestCommand) (*models.FriendRequest, error) {
				return nil, fmt.Errorf("friend request is not pending")
			},
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newFriendTestRouter(&mockFriendCommander{acceptFn: tt.acceptFn}, &mockFriendQuerier{}, "usr-002")
			w := doRequest(router, http.MethodPost, "/v1/friends/requests/frq-001/accept", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListFriends(t *testing.T) {
	tests := []struct {
		name           string
		listFriendsFn  func(cqrs.ListFriendsQuery) ([]models.UserView, error)
		expectedStatus int
	}{
		{
			name: "success - has friends",
			listFriendsFn: func(q cqrs.ListFriendsQuery) ([]models.UserView, error) {
				return []models.UserView{{ID: "usr-002", Username: "bob", DisplayName: "Bob"}}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "success - no friends yet returns empty list",
			listFriendsFn: func(q cqrs.ListFriendsQuery) ([]models.UserView, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newFriendTestRouter(&mockFriendCommander{}, &mockFriendQuerier{listFriendsFn: tt.listFriendsFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/v1/friends", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListFriendRequests(t *testing.T) {
	qrys := &mockFriendQuerier{
		listRequestsFn: func(q cqrs.ListFriendRequestsQuery) ([]models.FriendRequestView, error) {
			return []models.FriendRequestView{{
				RequestID: "frq-001",
				Sender:    models.UserView{ID: "usr-001", Username: "alice", DisplayName: "Alice"},
				Status:    models.RequestPending,
				SentAt:    time.Now(),
			}}, nil
		},
	}
	router := newFriendTestRouter(&mockFriendCommander{}, qrys, "usr-002")
	w := doRequest(router, http.MethodGet, "/v1/friends/requests", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d; body: %s", http.StatusOK, w.Code, w.Body.String())
	}
}
