package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lume/internal/models"
	"lume/internal/repo"
)

func TestUserStoreCreateAndLookups(t *testing.T) {
	s := repo.NewUserStore(openTestDB(t))

	pw := "$2a$10$fakehashfakehashfakehash"
	gid := "google-oauth-sub-1"
	created, err := s.Create(ctx(), models.User{
		Username: "dealer", Email: "dealer@example.com", Password: &pw, GoogleID: &gid,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, models.RoleDealer, created.Role, "роль по умолчанию")

	byID, err := s.ByID(ctx(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "dealer@example.com", byID.Email)

	byName, err := s.ByUsername(ctx(), "dealer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := s.ByEmail(ctx(), "dealer@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byGoogle, err := s.ByGoogleID(ctx(), gid)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byGoogle.ID)

	_, err = s.ByEmail(ctx(), "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserStoreUniqueConflicts(t *testing.T) {
	s := repo.NewUserStore(openTestDB(t))

	_, err := s.Create(ctx(), models.User{Username: "dealer", Email: "dealer@example.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx(), models.User{Username: "dealer", Email: "other@example.com"})
	assert.ErrorIs(t, err, repo.ErrConflict)

	_, err = s.Create(ctx(), models.User{Username: "other", Email: "dealer@example.com"})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

// несколько пользователей без GoogleID: NULL не должен конфликтовать
func TestUserStoreNullGoogleIDNotUnique(t *testing.T) {
	s := repo.NewUserStore(openTestDB(t))

	_, err := s.Create(ctx(), models.User{Username: "one", Email: "one@example.com"})
	require.NoError(t, err)
	_, err = s.Create(ctx(), models.User{Username: "two", Email: "two@example.com"})
	require.NoError(t, err)
}

func TestUserStoreUpdatePartial(t *testing.T) {
	s := repo.NewUserStore(openTestDB(t))
	u, err := s.Create(ctx(), models.User{Username: "dealer", Email: "dealer@example.com"})
	require.NoError(t, err)

	role := models.RoleAdmin
	updated, err := s.Update(ctx(), u.ID, models.UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "dealer", updated.Username, "остальные поля не трогаем")

	gid := "google-sub"
	updated, err = s.Update(ctx(), u.ID, models.UserPatch{GoogleID: &gid})
	require.NoError(t, err)

	byGoogle, err := s.ByGoogleID(ctx(), gid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byGoogle.ID)

	_, err = s.Update(ctx(), 9999, models.UserPatch{Role: &role})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserStoreList(t *testing.T) {
	s := repo.NewUserStore(openTestDB(t))
	_, err := s.Create(ctx(), models.User{Username: "one", Email: "one@example.com"})
	require.NoError(t, err)
	_, err = s.Create(ctx(), models.User{Username: "two", Email: "two@example.com"})
	require.NoError(t, err)

	list, err := s.List(ctx())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
