package endpoint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngantran/healthtrack-api/model"
)

func TestUpdateUserFields_AllowListedFields(t *testing.T) {
	db := setupServiceDB(t, "user_update")
	user := seedUser(t, db, "luca", model.RoleUser)

	require.NoError(t, updateUserFields(db, &user, &UpdateUserRequest{
		FirstName: "Luca",
		LastName:  "Rossi",
	}))
	require.NoError(t, db.Save(&user).Error)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Luca", stored.FirstName)
	assert.Equal(t, "Rossi", stored.LastName)
	assert.Equal(t, "luca@example.com", stored.Email)
}

func TestUpdateUserFields_EmailMustBeUnique(t *testing.T) {
	db := setupServiceDB(t, "user_email_unique")
	user := seedUser(t, db, "maia", model.RoleUser)
	seedUser(t, db, "nico", model.RoleUser)

	err := updateUserFields(db, &user, &UpdateUserRequest{Email: "nico@example.com"})
	assert.True(t, errors.Is(err, ErrUserEmailAlreadyExists))

	// Re-submitting the current email is a no-op, not a conflict.
	require.NoError(t, updateUserFields(db, &user, &UpdateUserRequest{Email: "maia@example.com"}))
}

func TestValidateUpdateRequest(t *testing.T) {
	assert.False(t, validateUpdateRequest(&UpdateUserRequest{}))
	assert.True(t, validateUpdateRequest(&UpdateUserRequest{FirstName: "A"}))
	assert.True(t, validateUpdateRequest(&UpdateUserRequest{Email: "a@example.com"}))
}
