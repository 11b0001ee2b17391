package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/internal/repository/repotest"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/internal/storage"
	"github.com/d60-Lab/socialgram/pkg/jwtutil"
)

type env struct {
	store     *repository.Store
	events    *events.Recorder
	auth      service.AuthService
	users     service.UserService
	relations service.RelationshipService
	posts     service.PostService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore(t)
	rec := &events.Recorder{}
	images := storage.NewLocalImageStore(t.TempDir(), "/uploads")
	auth := service.NewAuthService(jwtutil.NewManager("test-secret", time.Hour), store.Users, nil)
	return &env{
		store:     store,
		events:    rec,
		auth:      auth,
		users:     service.NewUserService(store.Users, auth, service.BcryptHasher{Cost: bcrypt.MinCost}, images, nil),
		relations: service.NewRelationshipService(store.Users, store.Relations, nil, rec),
		posts:     service.NewPostService(store.Posts, store.Users, images, rec),
	}
}

// register 注册并返回当前用户
func (e *env) register(t *testing.T, name string) *model.User {
	t.Helper()
	ctx := context.Background()
	res, err := e.users.Register(ctx, service.RegisterInput{Name: name, Email: name + "@x.com", Password: "pw123456"})
	require.NoError(t, err)
	u, err := e.auth.Verify(ctx, res.Token)
	require.NoError(t, err)
	return u
}

func (e *env) post(t *testing.T, actor *model.User, title string) *model.Post {
	t.Helper()
	p, err := e.posts.Create(context.Background(), actor, service.CreatePostInput{Title: title, Image: png()})
	require.NoError(t, err)
	return p
}

func png() *service.Upload {
	return &service.Upload{Filename: "photo.png", Body: bytes.NewReader([]byte("\x89PNG\r\n"))}
}
