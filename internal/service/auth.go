package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/summaries/internal/denylist"
	"github.com/Skotchmaster/summaries/internal/logging"
	"github.com/Skotchmaster/summaries/internal/metrics"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/tokens"
)

type AuthService struct {
	Verifier *CredentialVerifier
	Repo     *repo.GormRepo
	Tokens   *tokens.Issuer
	Denylist *denylist.Denylist
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type RefreshResult struct {
	AccessToken string
	AccessExp   time.Time
}

func identityOf(user *models.User) tokens.Identity {
	return tokens.Identity{UserID: user.ID, Username: user.Username, Role: user.Role.Name}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
			l.Warn("login_failed", "status", 401, "reason", "bad credentials")
			return nil, err
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	pair, err := s.Tokens.IssuePair(identityOf(user))
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  pair.Access.Token,
		RefreshToken: pair.Refresh.Token,
		AccessExp:    pair.Access.ExpiresAt,
		RefreshExp:   pair.Refresh.ExpiresAt,
	}, nil
}

// Verify decodes raw as a token of type want without consulting the denylist.
func (s *AuthService) Verify(ctx context.Context, raw string, want tokens.Type) (*tokens.Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.Tokens.Decode(raw, want)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrExpiredToken):
			return nil, errExpiredToken
		case errors.Is(err, tokens.ErrWrongTokenType):
			if want == tokens.Refresh {
				return nil, errOnlyRefresh
			}
			return nil, errOnlyAccess
		default:
			logging.FromContext(ctx).Debug("token_rejected", "reason", err.Error())
			return nil, errInvalidToken
		}
	}
	return claims, nil
}

// Authenticate is Verify plus a denylist check. A denylist outage does not
// reject the token.
func (s *AuthService) Authenticate(ctx context.Context, raw string, want tokens.Type) (*tokens.Claims, error) {
	claims, err := s.Verify(ctx, raw, want)
	if err != nil {
		return nil, err
	}
	if s.Denylist.IsRevoked(ctx, claims.ID) {
		return nil, errRevokedToken
	}
	return claims, nil
}

// Refresh exchanges an authenticated refresh token for a new access token.
// The refresh jti is revoked so the token can be used only once.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.Claims) (*RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh", "user_id", claims.UserID)

	user, err := s.Repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user no longer exists")
			return nil, errUnknownSubject
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	issued, err := s.Tokens.IssueAccessToken(identityOf(user))
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot issue access token", "error", err)
		return nil, err
	}

	created, err := s.revoke(ctx, claims.ID, tokens.Refresh)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return nil, err
	}
	if !created {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token already used", "jti", claims.ID)
		return nil, errRevokedToken
	}

	l.Info("refresh_success")
	return &RefreshResult{AccessToken: issued.Token, AccessExp: issued.ExpiresAt}, nil
}

// Logout revokes the access token described by claims. Revoking an
// already revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", claims.UserID)

	if _, err := s.revoke(ctx, claims.ID, tokens.Access); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}
	l.Info("logout_success")
	return nil
}

// revoke denylists jti for the lifetime of typ. An unreachable store is
// logged and counted, and the revocation is reported as created so the
// request still succeeds.
func (s *AuthService) revoke(ctx context.Context, jti string, typ tokens.Type) (bool, error) {
	created, err := s.Denylist.Revoke(ctx, jti, s.Tokens.TTL(typ))
	switch {
	case errors.Is(err, denylist.ErrStoreUnavailable):
		metrics.DenylistUnavailable.Inc()
		logging.FromContext(ctx).Warn("revocation_skipped", "jti", jti, "type", string(typ), "error", err)
		return true, nil
	case err != nil:
		return false, err
	}
	if created {
		metrics.TokenRevocations.WithLabelValues(string(typ)).Inc()
	}
	return created, nil
}
