package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/summaries/internal/metrics"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/tokens"
)

func TestCredentialVerifier_GenericFailure(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "password1")
	v := env.Auth.Verifier
	ctx := context.Background()

	user, err := v.Verify(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, wrongPassword := v.Verify(ctx, "alice", "password2")
	_, unknownUser := v.Verify(ctx, "mallory", "password1")

	require.ErrorIs(t, wrongPassword, ErrAuthenticationFailed)
	require.ErrorIs(t, unknownUser, ErrAuthenticationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, "Bad username or password", unknownUser.Error())
}

func TestLogin_IssuesPairWithSameIdentity(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	access, err := env.Tokens.Decode(res.AccessToken, tokens.Access)
	require.NoError(t, err)
	refresh, err := env.Tokens.Decode(res.RefreshToken, tokens.Refresh)
	require.NoError(t, err)

	assert.Equal(t, access.Identity(), refresh.Identity())
	assert.Equal(t, alice.ID, access.UserID)
	assert.Equal(t, "user", access.Role)
	assert.NotEqual(t, access.ID, refresh.ID)

	_, err = env.Auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		_, err := env.Auth.Authenticate(ctx, "", tokens.Access)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Missing Authorization Header", err.Error())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.Auth.Authenticate(ctx, "garbage", tokens.Access)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("foreign signature", func(t *testing.T) {
		forged, err := env.issuerAt(t, "another-secret", time.Now()).IssueAccessToken(identity(alice))
		require.NoError(t, err)

		_, err = env.Auth.Authenticate(ctx, forged.Token, tokens.Access)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Signature verification failed", err.Error())
	})

	t.Run("expired", func(t *testing.T) {
		stale, err := env.issuerAt(t, testSecret, time.Now().Add(-time.Hour)).IssueAccessToken(identity(alice))
		require.NoError(t, err)

		_, err = env.Auth.Authenticate(ctx, stale.Token, tokens.Access)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Equal(t, "Token has expired", err.Error())
	})

	t.Run("refresh where access is required", func(t *testing.T) {
		_, err := env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
		assert.Equal(t, "Only access tokens are allowed", err.Error())
	})

	t.Run("access where refresh is required", func(t *testing.T) {
		_, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Refresh)
		assert.ErrorIs(t, err, ErrWrongTokenType)
		assert.Equal(t, "Only refresh tokens are allowed", err.Error())
	})

	t.Run("valid", func(t *testing.T) {
		claims, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
	})
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	claims, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, claims))
	require.NoError(t, env.Auth.Logout(ctx, claims), "logout is idempotent")

	assert.Equal(t, env.Tokens.TTL(tokens.Access), env.Redis.TTL("denylist:"+claims.ID))

	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Token has been revoked", err.Error())

	// the refresh token of the same pair is unaffected
	_, err = env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Refresh)
	assert.NoError(t, err)
}

func TestRefresh_SingleUse(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	out, err := env.refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	claims, err := env.Auth.Authenticate(ctx, out.AccessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)

	_, err = env.refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefresh_ConcurrentUseSucceedsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.refresh(ctx, res.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrUnauthorized), "unexpected error %v", err)
	}
}

func TestRefresh_UsesEmbeddedUserID(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	// renaming does not break refresh; the user is found by id
	renamed := "alicia"
	_, err = env.Users.Update(ctx, identity(alice), alice.ID, patchUsername(renamed))
	require.NoError(t, err)

	out, err := env.refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	claims, err := env.Tokens.Decode(out.AccessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, renamed, claims.Subject)
}

func TestRefresh_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	require.NoError(t, env.Users.Delete(ctx, identity(alice), alice.ID))

	_, err = env.refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_IssuesBeforeRevoking(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	claims, err := env.Auth.Authenticate(ctx, res.RefreshToken, tokens.Refresh)
	require.NoError(t, err)

	// an access token cannot be minted without a role name
	setRoleName := func(from, to string) {
		require.NoError(t, env.Repo.DB.Model(&models.Role{}).Where("name = ?", from).Update("name", to).Error)
	}
	setRoleName(models.RoleUser, "")

	_, err = env.Auth.Refresh(ctx, claims)
	require.Error(t, err)
	assert.False(t, env.Redis.Exists("denylist:"+claims.ID), "failed exchange keeps the refresh token usable")

	setRoleName("", models.RoleUser)
	_, err = env.refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, env.Redis.Exists("denylist:"+claims.ID))
}

func TestDenylistOutage_FailsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "password1")
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	claims, err := env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)

	env.Redis.Close()
	before := testutil.ToFloat64(metrics.DenylistUnavailable)

	_, err = env.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	assert.NoError(t, err, "lookups fail open")

	assert.NoError(t, env.Auth.Logout(ctx, claims))

	out, err := env.refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	// one failed lookup per Authenticate call, one failed write per revoke
	assert.Equal(t, before+4, testutil.ToFloat64(metrics.DenylistUnavailable))
}
