package services

import (
	"testing"

	"digivera_backend/internal/services/dto"
	"digivera_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileChangesName(t *testing.T) {
	user := freeUser()
	userRepo := newFakeUserRepo(user)
	svc := NewUserService(userRepo)

	resp, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Name: "Dana Q."})
	require.NoError(t, err)

	assert.Equal(t, "Dana Q.", resp.Name)
	assert.Equal(t, user.Email, resp.Email, "email is immutable via profile updates")
}

func TestDeleteAccountRemovesUser(t *testing.T) {
	user := freeUser()
	userRepo := newFakeUserRepo(user)
	svc := NewUserService(userRepo)

	require.NoError(t, svc.DeleteAccount(user.ID))

	_, err := svc.GetProfile(user.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetProfile("ghost")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
