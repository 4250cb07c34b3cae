package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/summaries/internal/db/dbtest"
	"github.com/Skotchmaster/summaries/internal/denylist"
	"github.com/Skotchmaster/summaries/internal/events"
	"github.com/Skotchmaster/summaries/internal/hash"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/search"
	"github.com/Skotchmaster/summaries/internal/tokens"
)

const testSecret = "test-jwt-secret"

type recordingPublisher struct {
	events []events.Event
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev events.Event) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	Repo      *repo.GormRepo
	Redis     *miniredis.Miniredis
	Tokens    *tokens.Issuer
	Denylist  *denylist.Denylist
	Events    *recordingPublisher
	Auth      *AuthService
	Users     *UserService
	Summaries *SummaryService
	Comments  *CommentService
	Roles     *RoleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(dbtest.Open(t))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	dl := denylist.New(denylist.NewRedisStore(client))

	iss, err := tokens.NewIssuer(tokens.Options{
		Secret:     []byte("test-jwt-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "summaries",
	})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	return &testEnv{
		Repo:     r,
		Redis:    mr,
		Tokens:   iss,
		Denylist: dl,
		Events:   pub,
		Auth: &AuthService{
			Verifier: &CredentialVerifier{Users: r},
			Repo:     r,
			Tokens:   iss,
			Denylist: dl,
		},
		Users:     &UserService{Repo: r, Events: pub},
		Summaries: &SummaryService{Repo: r, Events: pub, Index: search.Disabled{}},
		Comments:  &CommentService{Repo: r, Events: pub},
		Roles:     &RoleService{Repo: r},
	}
}

func (env *testEnv) createUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	u, err := env.Repo.CreateUser(context.Background(), &models.User{Username: username, PasswordHash: pwHash})
	require.NoError(t, err)
	return u
}

// refresh authenticates raw as a refresh token the way the route guard does,
// then exchanges it.
func (env *testEnv) refresh(ctx context.Context, raw string) (*RefreshResult, error) {
	claims, err := env.Auth.Authenticate(ctx, raw, tokens.Refresh)
	if err != nil {
		return nil, err
	}
	return env.Auth.Refresh(ctx, claims)
}

// issuerAt returns an issuer sharing env's secret whose clock reads now.
func (env *testEnv) issuerAt(t *testing.T, secret string, now time.Time) *tokens.Issuer {
	t.Helper()
	iss, err := tokens.NewIssuer(tokens.Options{
		Secret:     []byte(secret),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "summaries",
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)
	return iss
}

func identity(u *models.User) tokens.Identity {
	return tokens.Identity{UserID: u.ID, Username: u.Username, Role: u.Role.Name}
}
