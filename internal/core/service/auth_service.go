package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

// AuthService verifies credentials against the store and issues session tokens.
type AuthService struct {
	actors  ports.ActorRepository
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	log     zerolog.Logger
}

// NewAuthService wires the login flow. A nil limiter disables throttling.
func NewAuthService(actors ports.ActorRepository, tokens ports.TokenService, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	if limiter == nil {
		limiter = unlimited{}
	}
	return &AuthService{actors: actors, tokens: tokens, limiter: limiter, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Actor, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
	} else if !allowed {
		return "", nil, domain.ErrTooManyAttempts
	}

	actor, err := s.actors.FindByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if ferr := s.limiter.RecordFailure(ctx, email); ferr != nil {
				s.log.Warn().Err(ferr).Msg("failed to record login failure")
			}
			return "", nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("login lookup failed")
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if rerr := s.limiter.Reset(ctx, email); rerr != nil {
		s.log.Warn().Err(rerr).Msg("failed to reset login limiter")
	}

	token, err := s.tokens.Issue(*actor)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("actor_id", actor.ID).Stringer("role", actor.Role).Msg("actor logged in")
	return token, actor, nil
}

type unlimited struct{}

func (unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
func (unlimited) RecordFailure(context.Context, string) error  { return nil }
func (unlimited) Reset(context.Context, string) error          { return nil }
