package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/internal/storage"
	"github.com/d60-Lab/socialgram/pkg/logger"
	"github.com/d60-Lab/socialgram/pkg/sanitize"
)

const (
	minCreateTitle = 2
	minUpdateTitle = 3
)

type CreatePostInput struct {
	Title string
	Image *Upload
}

// PostService 帖子与互动协调
type PostService interface {
	Create(ctx context.Context, actor *model.User, in CreatePostInput) (*model.Post, error)
	Delete(ctx context.Context, actor *model.User, postID string) error
	Update(ctx context.Context, actor *model.User, postID, title string) (*model.Post, error)
	Get(ctx context.Context, postID string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	Search(ctx context.Context, query string) ([]*model.Post, error)

	Like(ctx context.Context, actor *model.User, postID string) (*model.Post, error)
	Unlike(ctx context.Context, actor *model.User, postID string) (*model.Post, error)
	Comment(ctx context.Context, actor *model.User, postID, text string) (*model.Comment, error)

	Save(ctx context.Context, actor *model.User, postID string) error
	Unsave(ctx context.Context, actor *model.User, postID string) error
	ListSaved(ctx context.Context, actor *model.User) ([]*model.Post, error)
}

type postService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	images storage.ImageStore
	events events.Publisher
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, images storage.ImageStore, pub events.Publisher) PostService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &postService{posts: posts, users: users, images: images, events: pub}
}

func (s *postService) Create(ctx context.Context, actor *model.User, in CreatePostInput) (*model.Post, error) {
	title, err := checkTitle(in.Title, minCreateTitle)
	if err != nil {
		return nil, err
	}
	if in.Image == nil {
		return nil, ErrImageRequired
	}

	owner, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	image, err := saveImage(ctx, s.images, "photos", in.Image)
	if err != nil {
		return nil, err
	}

	p := &model.Post{
		ID:       uuid.New().String(),
		Image:    image,
		Title:    title,
		UserID:   owner.ID,
		UserName: owner.Name,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	logger.Info("post created", zap.String("post", p.ID), zap.String("user", owner.ID))
	return p, nil
}

func (s *postService) Delete(ctx context.Context, actor *model.User, postID string) error {
	if _, err := s.owned(ctx, actor, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	logger.Info("post deleted", zap.String("post", postID), zap.String("user", actor.ID))
	return nil
}

// Update 先校验归属，再校验标题
func (s *postService) Update(ctx context.Context, actor *model.User, postID, title string) (*model.Post, error) {
	if _, err := s.owned(ctx, actor, postID); err != nil {
		return nil, err
	}
	clean, err := checkTitle(title, minUpdateTitle)
	if err != nil {
		return nil, err
	}
	if err := s.posts.UpdateTitle(ctx, postID, clean); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}
	return s.Get(ctx, postID)
}

func (s *postService) Get(ctx context.Context, postID string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}
	return p, nil
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

// Search 空查询返回全部帖子
func (s *postService) Search(ctx context.Context, query string) ([]*model.Post, error) {
	return s.posts.SearchTitle(ctx, query)
}

func (s *postService) Like(ctx context.Context, actor *model.User, postID string) (*model.Post, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.LikedBy(actor.ID) {
		return nil, ErrAlreadyLiked
	}
	if err := s.posts.AddLike(ctx, postID, actor.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyLiked
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("like post %s: %w", postID, err)
	}
	record(ctx, s.events, events.ActionLike, actor.ID, postID, p.UserID)
	return s.Get(ctx, postID)
}

func (s *postService) Unlike(ctx context.Context, actor *model.User, postID string) (*model.Post, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.LikedBy(actor.ID) {
		return nil, ErrNotLiked
	}
	if err := s.posts.RemoveLike(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotLiked
		}
		return nil, fmt.Errorf("unlike post %s: %w", postID, err)
	}
	record(ctx, s.events, events.ActionUnlike, actor.ID, postID, p.UserID)
	return s.Get(ctx, postID)
}

// Comment 追加评论，作者名与头像取评论时的快照
func (s *postService) Comment(ctx context.Context, actor *model.User, postID, text string) (*model.Comment, error) {
	body := sanitize.Text(text)
	if body == "" {
		return nil, ErrCommentRequired
	}
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        uuid.New().String(),
		Comment:   body,
		UserID:    author.ID,
		UserName:  author.Name,
		UserImage: author.ProfileImage,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AddComment(ctx, postID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("comment post %s: %w", postID, err)
	}
	record(ctx, s.events, events.ActionComment, actor.ID, postID, p.UserID)
	return c, nil
}

func (s *postService) Save(ctx context.Context, actor *model.User, postID string) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	saved, err := s.posts.IsSaved(ctx, postID, actor.ID)
	if err != nil {
		return fmt.Errorf("check saved: %w", err)
	}
	if saved {
		return ErrAlreadySaved
	}
	if err := s.posts.AddSave(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadySaved
		}
		return fmt.Errorf("save post %s: %w", postID, err)
	}
	record(ctx, s.events, events.ActionSave, actor.ID, postID, p.UserID)
	return nil
}

func (s *postService) Unsave(ctx context.Context, actor *model.User, postID string) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.posts.RemoveSave(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSaved
		}
		return fmt.Errorf("unsave post %s: %w", postID, err)
	}
	record(ctx, s.events, events.ActionUnsave, actor.ID, postID, p.UserID)
	return nil
}

func (s *postService) ListSaved(ctx context.Context, actor *model.User) ([]*model.Post, error) {
	return s.posts.ListSaved(ctx, actor.ID)
}

// owned 帖子不存在返回 ErrPostNotFound，非作者返回 ErrForbidden
func (s *postService) owned(ctx context.Context, actor *model.User, postID string) (*model.Post, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return p, nil
}

// snapshot 重新读取当前用户，身份缓存中的名字可能已过期
func (s *postService) snapshot(ctx context.Context, actor *model.User) (*model.User, error) {
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load actor %s: %w", actor.ID, err)
	}
	return u, nil
}

func checkTitle(raw string, minLen int) (string, error) {
	title := sanitize.Text(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) < minLen {
		return "", Validation(fmt.Sprintf("A descrição precisa ter no mínimo %d caracteres.", minLen))
	}
	return title, nil
}
