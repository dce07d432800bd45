package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/pkg/auth"
	"github.com/jwalitptl/reservation-admin/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Credentials struct {
	Username     string
	PasswordHash string
}

type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

type Service struct {
	admin  Credentials
	hasher security.PasswordHasher
	jwtSvc auth.JWTService
}

func NewService(admin Credentials, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{
		admin:  admin,
		hasher: hasher,
		jwtSvc: jwtSvc,
	}
}

// Login checks the admin credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	// always run the hash comparison so failures take the same time
	passErr := s.hasher.Compare(s.admin.PasswordHash, password)
	if !userOK || passErr != nil {
		log.Ctx(ctx).Warn().Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.jwtSvc.GenerateToken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	log.Ctx(ctx).Info().Str("username", username).Msg("admin signed in")
	return &Session{Token: token, Username: username, ExpiresAt: expires}, nil
}

// Authenticate resolves a session token to its claims.
func (s *Service) Authenticate(token string) (*auth.Claims, error) {
	return s.jwtSvc.ValidateToken(token)
}
