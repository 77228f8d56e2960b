package command

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/challengeer/challenge-service/internal/cqrs"
	"github.com/challengeer/challenge-service/internal/googleauth"
	"github.com/challengeer/challenge-service/internal/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

type mockUserAccountStore struct {
	createFn      func(*models.User) error
	getByGoogleFn func(googleID, email string) (*models.User, error)
	linkGoogleFn  func(userID, googleID, email string) error

	created *models.User
	linked  bool
}

func (m *mockUserAccountStore) Create(user *models.User) error {
	m.created = user
	if m.createFn != nil {
		return m.createFn(user)
	}
	return nil
}
func (m *mockUserAccountStore) GetByGoogle(googleID, email string) (*models.User, error) {
	if m.getByGoogleFn != nil {
		return m.getByGoogleFn(googleID, email)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserAccountStore) LinkGoogle(userID, googleID, email string) error {
	m.linked = true
	if m.linkGoogleFn != nil {
		return m.linkGoogleFn(userID, googleID, email)
	}
	return nil
}

type noopViewCacher struct{}

func (noopViewCacher) CacheUserView(_ context.Context, _ *models.UserView) {}

type stubVerifier struct {
	identity *googleauth.Identity
	err      error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*googleauth.Identity, error) {
	return s.identity, s.err
}

var testIdentity = &googleauth.Identity{
	Subject: "google-subject-1",
	Email:   "alice@example.com",
	Name:    "Alice",
}

func TestGoogleLoginFirstSignInCreatesAccount(t *testing.T) {
	store := &mockUserAccountStore{
		getByGoogleFn: func(_, _ string) (*models.User, error) {
			return nil, fmt.Errorf("user not found")
		},
	}
	svc := NewAuthCommandService(store, noopViewCacher{}, &stubVerifier{identity: testIdentity})

	view, err := svc.GoogleLogin(cqrs.GoogleLoginCommand{IDToken: "valid-token"})
	if err != nil {
		t.Fatalf("GoogleLogin failed: %v", err)
	}
	if store.created == nil {
		t.Fatal("expected a new account to be created")
	}
	if store.created.GoogleID != testIdentity.Subject {
		t.Errorf("created account not linked to google id: %+v", store.created)
	}
	if view.AccessToken == "" || view.RefreshToken == "" {
		t.Error("expected a token pair in the response")
	}
}

func TestGoogleLoginLookupFailureDoesNotCreateAccount(t *testing.T) {
	store := &mockUserAccountStore{
		getByGoogleFn: func(_, _ string) (*models.User, error) {
			return nil, fmt.Errorf("failed to get user: connection refused")
		},
	}
	svc := NewAuthCommandService(store, noopViewCacher{}, &stubVerifier{identity: testIdentity})

	_, err := svc.GoogleLogin(cqrs.GoogleLoginCommand{IDToken: "valid-token"})
	if err == nil {
		t.Fatal("expected the lookup failure to surface")
	}
	if err.Error() == "user not found" || err.Error() == "email already registered" {
		t.Errorf("lookup failure mapped to the wrong error: %v", err)
	}
	if store.created != nil {
		t.Error("a transient lookup failure must not create an account")
	}
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	existing := &models.User{ID: "usr-001", Username: "alice", Email: "alice@example.com"}
	store := &mockUserAccountStore{
		getByGoogleFn: func(_, _ string) (*models.User, error) { return existing, nil },
	}
	svc := NewAuthCommandService(store, noopViewCacher{}, &stubVerifier{identity: testIdentity})

	view, err := svc.GoogleLogin(cqrs.GoogleLoginCommand{IDToken: "valid-token"})
	if err != nil {
		t.Fatalf("GoogleLogin failed: %v", err)
	}
	if !store.linked {
		t.Error("expected the existing account to be linked")
	}
	if store.created != nil {
		t.Error("existing account must not trigger creation")
	}
	if view.User.ID != "usr-001" {
		t.Errorf("unexpected user in response: %+v", view.User)
	}
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	store := &mockUserAccountStore{}
	svc := NewAuthCommandService(store, noopViewCacher{}, &stubVerifier{err: fmt.Errorf("token expired")})

	_, err := svc.GoogleLogin(cqrs.GoogleLoginCommand{IDToken: "bad-token"})
	if err == nil || err.Error() != "invalid google token" {
		t.Errorf("expected invalid google token, got %v", err)
	}
}
