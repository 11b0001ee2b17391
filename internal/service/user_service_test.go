package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgram/internal/service"
)

func TestUserService_Register(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.users.Register(ctx, service.RegisterInput{Name: "ana", Email: "ana@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.NotEmpty(t, res.Token)

	u, err := e.users.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Name)
	assert.NotEqual(t, "pw123456", u.Password)

	_, err = e.users.Register(ctx, service.RegisterInput{Name: "ana2", Email: "ana@x.com", Password: "x"})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestUserService_Login(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")

	res, err := e.users.Login(ctx, "ana@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, res.ID)
	assert.NotEmpty(t, res.Token)

	_, err = e.users.Login(ctx, "ana@x.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidPassword)

	_, err = e.users.Login(ctx, "nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")

	u, err := e.users.UpdateProfile(ctx, ana, service.UpdateProfileInput{Bio: "<b>oi</b>"})
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Name, "empty name keeps the old value")
	assert.Equal(t, "oi", u.Bio)

	u, err = e.users.UpdateProfile(ctx, ana, service.UpdateProfileInput{
		Name:         "Ana Maria",
		Password:     "newpass1",
		ProfileImage: &service.Upload{Filename: "me.JPG", Body: bytes.NewReader([]byte("jpg"))},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, "oi", u.Bio)
	assert.True(t, strings.HasPrefix(u.ProfileImage, "/uploads/users/"))

	_, err = e.users.Login(ctx, "ana@x.com", "pw123456")
	assert.ErrorIs(t, err, service.ErrInvalidPassword)
	_, err = e.users.Login(ctx, "ana@x.com", "newpass1")
	assert.NoError(t, err)
}

func TestUserService_UpdateProfileRejectsNonImage(t *testing.T) {
	e := newEnv(t)
	ana := e.register(t, "ana")

	_, err := e.users.UpdateProfile(context.Background(), ana, service.UpdateProfileInput{
		ProfileImage: &service.Upload{Filename: "me.gif", Body: bytes.NewReader(nil)},
	})
	assert.ErrorIs(t, err, service.ErrUnsupportedImage)
}

func TestUserService_GetUnknown(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}
