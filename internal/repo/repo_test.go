package repo_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/summaries/internal/db/dbtest"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(dbtest.Open(t))
}

func createUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), &models.User{
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func createSummary(t *testing.T, r *repo.GormRepo, userID uint) *models.Summary {
	t.Helper()
	desc := gofakeit.Sentence(8)
	s, err := r.CreateSummary(context.Background(), &models.Summary{
		Title:       gofakeit.LetterN(10),
		Description: &desc,
		UserID:      userID,
	})
	require.NoError(t, err)
	return s
}

func TestCreateUser_DefaultRoleAndDuplicate(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := createUser(t, r, "alice")
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role.Name)

	_, err := r.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, repo.ErrUsernameTaken)

	_, err = r.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "x", RoleID: 999})
	assert.ErrorIs(t, err, repo.ErrMissingRole)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	alice := createUser(t, r, "alice")
	createUser(t, r, "bob")

	fio := "Alice Liddell"
	updated, err := r.UpdateUser(ctx, alice.ID, repo.UserPatch{FIO: &fio})
	require.NoError(t, err)
	require.NotNil(t, updated.FIO)
	assert.Equal(t, fio, *updated.FIO)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = r.UpdateUser(ctx, alice.ID, repo.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, repo.ErrUsernameTaken)

	_, err = r.UpdateUser(ctx, 999, repo.UserPatch{FIO: &fio})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	alice := createUser(t, r, "alice")
	bob := createUser(t, r, "bob")

	aliceSummary := createSummary(t, r, alice.ID)
	bobSummary := createSummary(t, r, bob.ID)

	// bob comments on alice's summary, alice comments on bob's
	onAlice, err := r.CreateComment(ctx, &models.Comment{Text: "nice", UserID: bob.ID, SummaryID: aliceSummary.ID})
	require.NoError(t, err)
	byAlice, err := r.CreateComment(ctx, &models.Comment{Text: "thanks", UserID: alice.ID, SummaryID: bobSummary.ID})
	require.NoError(t, err)

	require.NoError(t, r.DeleteUser(ctx, alice.ID))

	_, err = r.GetUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.GetSummary(ctx, aliceSummary.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.GetComment(ctx, onAlice.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.GetComment(ctx, byAlice.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.GetSummary(ctx, bobSummary.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, r.DeleteUser(ctx, alice.ID), repo.ErrNotFound)
}

func TestSummaries(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")

	_, err := r.CreateSummary(ctx, &models.Summary{Title: "orphan", UserID: 42})
	assert.ErrorIs(t, err, repo.ErrMissingUser)

	s := createSummary(t, r, alice.ID)
	assert.Equal(t, "alice", s.User.Username)

	title := "Renamed"
	updated, err := r.UpdateSummary(ctx, s.ID, repo.SummaryPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = r.UpdateSummary(ctx, 999, repo.SummaryPatch{Title: &title})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	list, err := r.ListUserSummaries(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = r.ListUserSummaries(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	c, err := r.CreateComment(ctx, &models.Comment{Text: "hi", UserID: alice.ID, SummaryID: s.ID})
	require.NoError(t, err)

	require.NoError(t, r.DeleteSummary(ctx, s.ID))
	_, err = r.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.DeleteSummary(ctx, s.ID), repo.ErrNotFound)
}

func TestListSummaries_Limit(t *testing.T) {
	r := newRepo(t)
	alice := createUser(t, r, "alice")
	for i := 0; i < 5; i++ {
		createSummary(t, r, alice.ID)
	}

	list, err := r.ListSummaries(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSearchSummaries(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")

	desc := "a summary about distributed consensus"
	hit, err := r.CreateSummary(ctx, &models.Summary{Title: "Raft notes", Description: &desc, UserID: alice.ID})
	require.NoError(t, err)
	_, err = r.CreateSummary(ctx, &models.Summary{Title: "Cooking", UserID: alice.ID})
	require.NoError(t, err)
	pct, err := r.CreateSummary(ctx, &models.Summary{Title: "100% done", UserID: alice.ID})
	require.NoError(t, err)

	found, err := r.SearchSummaries(ctx, "CONSENSUS", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, hit.ID, found[0].ID)

	found, err = r.SearchSummaries(ctx, "%", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pct.ID, found[0].ID)

	byIDs, err := r.ListSummariesByIDs(ctx, []uint{pct.ID, 999, hit.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, pct.ID, byIDs[0].ID)
	assert.Equal(t, hit.ID, byIDs[1].ID)
}

func TestCreateComment_MissingReferences(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")
	s := createSummary(t, r, alice.ID)

	_, err := r.CreateComment(ctx, &models.Comment{Text: "x", UserID: 999, SummaryID: s.ID})
	assert.ErrorIs(t, err, repo.ErrMissingUser)

	_, err = r.CreateComment(ctx, &models.Comment{Text: "x", UserID: alice.ID, SummaryID: 999})
	assert.ErrorIs(t, err, repo.ErrMissingSummary)

	c, err := r.CreateComment(ctx, &models.Comment{Text: "x", UserID: alice.ID, SummaryID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, s.ID, c.Summary.ID)

	updated, err := r.UpdateComment(ctx, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	require.NoError(t, r.DeleteComment(ctx, c.ID))
	assert.ErrorIs(t, r.DeleteComment(ctx, c.ID), repo.ErrNotFound)
}

func TestRoles(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	roles, err := r.ListRoles(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	desc := "moderates comments"
	mod, err := r.CreateRole(ctx, &models.Role{Name: "moderator", Description: &desc})
	require.NoError(t, err)

	_, err = r.CreateRole(ctx, &models.Role{Name: "moderator"})
	assert.ErrorIs(t, err, repo.ErrRoleNameTaken)

	name := "mod"
	updated, err := r.UpdateRole(ctx, mod.ID, repo.RolePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "mod", updated.Name)

	user, err := r.GetRoleByName(ctx, models.RoleUser)
	require.NoError(t, err)
	createUser(t, r, "alice")
	assert.ErrorIs(t, r.DeleteRole(ctx, user.ID), repo.ErrRoleInUse)

	require.NoError(t, r.DeleteRole(ctx, mod.ID))
	_, err = r.GetRoleByID(ctx, mod.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
