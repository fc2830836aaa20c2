// Package services contains server-side business logic. UserService handles
// registration, login, logout and resolving the identity behind a session
// token; EventService applies ownership and join rules to events.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/cryptox"
	"github.com/dmitrijs2005/eventaura/internal/server/auth"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/revocations"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PhotoURL string
}

// Session is the outcome of a successful login.
type Session struct {
	Token    string
	Identity auth.Identity
	User     *models.User
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	revocations revocations.Store
	params      cryptox.Params

	dummyOnce   sync.Once
	dummyDigest string
}

// NewUserService wires the service. A nil revocation store disables
// server-side logout.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, rs revocations.Store) *UserService {
	if rs == nil {
		rs = revocations.NoopStore{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		codec:       codec,
		revocations: rs,
		params:      cryptox.DefaultParams,
	}
}

// Register stores a new user with a digested password. A taken email yields
// common.ErrDuplicateEmail and creates nothing.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: cryptox.Digest(in.Password, s.params),
		PhotoURL: in.PhotoURL,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both return common.ErrInvalidCredentials after the same
// amount of digest work.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.Compare(s.dummy(), password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := cryptox.Compare(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("error comparing digest: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, identity, err := s.codec.Issue(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &Session{Token: token, Identity: identity, User: user}, nil
}

// Logout blocklists the token until its expiry when a revocation store is
// configured. Missing or unusable tokens are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	identity, err := s.codec.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.revocations.MarkRevoked(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// ResolveIdentity maps a session token to the caller's identity.
// An empty token is common.ErrUnauthenticated; a token that fails
// verification or has been revoked is common.ErrForbidden.
func (s *UserService) ResolveIdentity(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, common.ErrUnauthenticated
	}

	identity, err := s.codec.Verify(token)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: %w", common.ErrForbidden, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return auth.Identity{}, fmt.Errorf("%w: token revoked", common.ErrForbidden)
	}

	return identity, nil
}

// CheckAuth is ResolveIdentity for the session probe endpoint, which answers
// unauthenticated for every kind of unusable token.
func (s *UserService) CheckAuth(ctx context.Context, token string) (auth.Identity, error) {
	identity, err := s.ResolveIdentity(ctx, token)
	if errors.Is(err, common.ErrForbidden) {
		return auth.Identity{}, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	return identity, err
}

// Me returns the stored profile of the identity's user.
func (s *UserService) Me(ctx context.Context, identity auth.Identity) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		seed, err := common.MakeRandHexString(16)
		if err != nil {
			seed = "unknown-user"
		}
		s.dummyDigest = cryptox.Digest(seed, s.params)
	})
	return s.dummyDigest
}

func (in RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	case strings.TrimSpace(in.Email) == "":
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: email is invalid", common.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}
