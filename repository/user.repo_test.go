package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coursehub/models"
)

func TestUserCreateHashesPasswordOnce(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), bcrypt.MinCost)

	user, err := repo.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)
	require.NotEqual(t, "secret-pw", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pw")))
}

func TestUserCreateAlsoCreatesProfile(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), bcrypt.MinCost)

	user, err := repo.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	profile, err := repo.ProfileByUserID(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.UserID)
	require.Empty(t, profile.ProfilePicture)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), bcrypt.MinCost)

	_, err := repo.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	_, err = repo.Create("Bo", "a@x.com", "other-pw", models.RoleUser)
	require.Error(t, err)
}

func TestUserUpdatePasswordRehashes(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), bcrypt.MinCost)

	user, err := repo.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(user.ID, "new-secret"))

	updated, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-secret")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("secret-pw")))
}

func TestUserUpdateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), bcrypt.MinCost)

	user, err := repo.Create("Al", "a@x.com", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateEmail(user.ID, "new@x.com"))

	updated, err := repo.FindByEmail("new@x.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, updated.ID)
}
