package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/taskboard/internal/auth"
	"github.com/spec-kit/taskboard/internal/domain"
	"github.com/spec-kit/taskboard/internal/events"
	"github.com/spec-kit/taskboard/internal/store"
	apperrors "github.com/spec-kit/taskboard/pkg/util"
)

// AuthService coordinates signup, login and identity lookup. It is a pure
// composition of the hasher, the token manager, the guard and the datastore.
type AuthService struct {
	store      store.DataStore
	guard      *auth.Guard
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Store      store.DataStore
	Guard      *auth.Guard
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = auth.DefaultBcryptCost
	}
	return &AuthService{
		store:      deps.Store,
		guard:      deps.Guard,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: cost,
	}
}

// Signup creates an account, hashes the password and issues a token for the
// new identity.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*domain.AuthPayload, error) {
	if email == "" || password == "" || name == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewUpstreamError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.NewUpstreamError(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserSignedUp, user.ID, events.UserEventPayload{UserID: user.ID, Email: user.Email})
	return &domain.AuthPayload{Token: token, User: user}, nil
}

// Login authenticates by email and password and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthPayload, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("user with email %s", email), nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.NewInvalidCredentials("invalid password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserEventPayload{UserID: user.ID, Email: user.Email})
	return &domain.AuthPayload{Token: token, User: user}, nil
}

// Me resolves the authenticated identity to its user record.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}
	return user, nil
}

// User fetches a user by id; used by the AuthPayload.user field resolver.
func (s *AuthService) User(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
