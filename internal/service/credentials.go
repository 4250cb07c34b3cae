package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/summaries/internal/hash"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
)

type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// CredentialVerifier checks a username and password against stored users.
// An unknown user and a wrong password are indistinguishable to the caller.
type CredentialVerifier struct {
	Users UserFinder
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, errBadCredentials
	}
	return user, nil
}
