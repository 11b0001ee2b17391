package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/service"
)

func TestPostService_CreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")

	_, err := e.posts.Create(ctx, ana, service.CreatePostInput{Title: "  ", Image: png()})
	assert.ErrorIs(t, err, service.ErrTitleRequired)

	_, err = e.posts.Create(ctx, ana, service.CreatePostInput{Title: "a", Image: png()})
	require.Error(t, err)
	assert.Equal(t, "A descrição precisa ter no mínimo 2 caracteres.", err.Error())
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = e.posts.Create(ctx, ana, service.CreatePostInput{Title: "ola"})
	assert.ErrorIs(t, err, service.ErrImageRequired)

	p, err := e.posts.Create(ctx, ana, service.CreatePostInput{Title: " ola ", Image: png()})
	require.NoError(t, err)
	assert.Equal(t, "ola", p.Title)
	assert.Equal(t, ana.ID, p.UserID)
	assert.Equal(t, "ana", p.UserName)
	assert.True(t, strings.HasPrefix(p.Image, "/uploads/photos/"))
	assert.Empty(t, p.Likes)
	assert.Empty(t, p.Comments)
}

func TestPostService_OwnershipIsCheckedFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana, bia := e.register(t, "ana"), e.register(t, "bia")
	p := e.post(t, ana, "ola mundo")

	for _, title := range []string{"", "x", "a valid new title"} {
		_, err := e.posts.Update(ctx, bia, p.ID, title)
		assert.ErrorIs(t, err, service.ErrForbidden, "title %q", title)
	}
	assert.ErrorIs(t, e.posts.Delete(ctx, bia, p.ID), service.ErrForbidden)

	_, err := e.posts.Update(ctx, ana, p.ID, "ab")
	require.Error(t, err)
	assert.Equal(t, "A descrição precisa ter no mínimo 3 caracteres.", err.Error())

	updated, err := e.posts.Update(ctx, ana, p.ID, "novo titulo")
	require.NoError(t, err)
	assert.Equal(t, "novo titulo", updated.Title)

	_, err = e.posts.Update(ctx, ana, "missing", "novo titulo")
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestPostService_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana, bia := e.register(t, "ana"), e.register(t, "bia")
	p := e.post(t, ana, "ola")
	_, err := e.posts.Like(ctx, bia, p.ID)
	require.NoError(t, err)
	require.NoError(t, e.posts.Save(ctx, bia, p.ID))

	require.NoError(t, e.posts.Delete(ctx, ana, p.ID))
	_, err = e.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
	assert.ErrorIs(t, e.posts.Delete(ctx, ana, p.ID), service.ErrPostNotFound)

	saved, err := e.posts.ListSaved(ctx, bia)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestPostService_ListNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana, bia := e.register(t, "ana"), e.register(t, "bia")
	for _, title := range []string{"um", "dois", "tres"} {
		e.post(t, ana, title)
	}
	e.post(t, bia, "quatro")

	all, err := e.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	mine, err := e.posts.ListByUser(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for i := 1; i < len(mine); i++ {
		assert.False(t, mine[i].CreatedAt.After(mine[i-1].CreatedAt))
	}
}

func TestPostService_LikeRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana, bia := e.register(t, "ana"), e.register(t, "bia")
	p := e.post(t, ana, "ola")

	// 作者给自己点赞是允许的
	_, err := e.posts.Like(ctx, ana, p.ID)
	require.NoError(t, err)
	before, err := e.posts.Get(ctx, p.ID)
	require.NoError(t, err)

	liked, err := e.posts.Like(ctx, bia, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ana.ID, bia.ID}, liked.Likes)

	_, err = e.posts.Like(ctx, bia, p.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyLiked)

	after, err := e.posts.Unlike(ctx, bia, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Likes, after.Likes)

	_, err = e.posts.Unlike(ctx, bia, p.ID)
	assert.ErrorIs(t, err, service.ErrNotLiked)
	again, err := e.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Likes, again.Likes)

	_, err = e.posts.Like(ctx, bia, "missing")
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestPostService_CommentSnapshot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")
	p := e.post(t, ana, "ola")

	_, err := e.posts.Comment(ctx, ana, p.ID, "   ")
	assert.ErrorIs(t, err, service.ErrCommentRequired)

	c, err := e.posts.Comment(ctx, ana, p.ID, "primeiro")
	require.NoError(t, err)
	assert.Equal(t, "ana", c.UserName)

	// 改名后旧快照不变，新评论使用新名字
	_, err = e.users.UpdateProfile(ctx, ana, service.UpdateProfileInput{Name: "Ana Maria"})
	require.NoError(t, err)
	_, err = e.posts.Comment(ctx, ana, p.ID, "segundo")
	require.NoError(t, err)

	got, err := e.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "primeiro", got.Comments[0].Comment)
	assert.Equal(t, "ana", got.Comments[0].UserName)
	assert.Equal(t, "Ana Maria", got.Comments[1].UserName)
	assert.Equal(t, "ana", got.UserName)

	_, err = e.posts.Comment(ctx, ana, "missing", "oi")
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestPostService_Search(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")
	e.post(t, ana, "Praia de Copacabana")
	e.post(t, ana, "100% praia")
	e.post(t, ana, "montanha")

	got, err := e.posts.Search(ctx, "PRAIA")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = e.posts.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% praia", got[0].Title)

	got, err = e.posts.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestPostService_SaveUnsave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana, bia := e.register(t, "ana"), e.register(t, "bia")
	p := e.post(t, ana, "ola")

	require.NoError(t, e.posts.Save(ctx, bia, p.ID))
	assert.ErrorIs(t, e.posts.Save(ctx, bia, p.ID), service.ErrAlreadySaved)

	saved, err := e.posts.ListSaved(ctx, bia)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p.ID, saved[0].ID)

	require.NoError(t, e.posts.Unsave(ctx, bia, p.ID))
	assert.ErrorIs(t, e.posts.Unsave(ctx, bia, p.ID), service.ErrNotSaved)
	assert.ErrorIs(t, e.posts.Save(ctx, bia, "missing"), service.ErrPostNotFound)

	var actions []events.Action
	for _, ev := range e.events.Events() {
		actions = append(actions, ev.Action)
		assert.Equal(t, ana.ID, ev.OwnerID)
	}
	assert.Equal(t, []events.Action{events.ActionSave, events.ActionUnsave}, actions)
}
