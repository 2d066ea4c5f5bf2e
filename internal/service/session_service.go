package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/credential"
	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/gateway"
)

// AuthGateway is the part of the gateway client the session needs.
type AuthGateway interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	ValidateToken(ctx context.Context) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

type SessionService interface {
	// Login signs in and stores the issued token for later gateway calls.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	// Logout revokes the token remotely, then forgets it locally even when
	// the remote call fails.
	Logout(ctx context.Context) error
	Session() dto.SessionResponse
	// Validate asks the gateway whether the stored token is still accepted.
	Validate(ctx context.Context) (dto.SessionResponse, error)
}

type sessionService struct {
	auth  AuthGateway
	store credential.Store
	now   func() time.Time
}

func NewSessionService(auth AuthGateway, store credential.Store) SessionService {
	return &sessionService{auth: auth, store: store, now: time.Now}
}

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Login rejected")
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response carries no token", gateway.ErrMalformed)
	}

	username := resp.Username
	if username == "" {
		username = req.Username
	}
	c := credential.Credential{Token: resp.Token, Username: username}
	if resp.UserID != 0 {
		c.UserID = strconv.FormatInt(resp.UserID, 10)
	}
	if err := s.store.Save(c); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}
	log.Info().Str("username", username).Msg("Signed in")
	return resp, nil
}

func (s *sessionService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Info().Str("username", req.Username).Msg("Account registered")
	return resp, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	token := s.store.Token()
	if token == "" {
		return nil
	}
	if err := s.auth.Logout(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Remote logout failed, clearing local credential anyway")
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	log.Info().Msg("Signed out")
	return nil
}

func (s *sessionService) Session() dto.SessionResponse {
	c := s.store.Current()
	if c.Empty() {
		return dto.SessionResponse{}
	}
	return dto.SessionResponse{
		Authenticated: true,
		Username:      c.Username,
		UserID:        c.UserID,
		Expired:       s.store.IsTokenExpired(s.now()),
	}
}

func (s *sessionService) Validate(ctx context.Context) (dto.SessionResponse, error) {
	if _, err := s.auth.ValidateToken(ctx); err != nil {
		if errors.Is(err, gateway.ErrAuth) || errors.Is(err, gateway.ErrNotSignedIn) {
			// the gateway client already dropped a rejected token
			return s.Session(), nil
		}
		return s.Session(), err
	}
	sess := s.Session()
	sess.Expired = false
	return sess, nil
}
