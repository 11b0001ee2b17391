package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/internal/storage"
	"github.com/d60-Lab/socialgram/pkg/logger"
	"github.com/d60-Lab/socialgram/pkg/sanitize"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput 空串等同未提供，不会清空已有值
type UpdateProfileInput struct {
	Name         string
	Password     string
	Bio          string
	ProfileImage *Upload
}

// AuthResult 注册/登录返回体
type AuthResult struct {
	ID           string `json:"_id"`
	ProfileImage string `json:"profileImage,omitempty"`
	Token        string `json:"token"`
}

// UserService 用户目录
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, in UpdateProfileInput) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	auth   AuthService
	hasher Hasher
	images storage.ImageStore
	cache  cache.UserCache
}

func NewUserService(users repository.UserRepository, auth AuthService, hasher Hasher, images storage.ImageStore, userCache cache.UserCache) UserService {
	if userCache == nil {
		userCache = cache.Nop{}
	}
	return &userService{users: users, auth: auth, hasher: hasher, images: images, cache: userCache}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := sanitize.Text(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, Validation("O nome é obrigatório.")
	}
	if email == "" {
		return nil, Validation("O e-mail é obrigatório.")
	}
	if in.Password == "" {
		return nil, Validation("A senha é obrigatória.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{ID: uuid.New().String(), Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("user registered", zap.String("user", u.ID))
	return &AuthResult{ID: u.ID, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if err := s.hasher.Compare(u.Password, password); err != nil {
		return nil, ErrInvalidPassword
	}
	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{ID: u.ID, ProfileImage: u.ProfileImage, Token: token}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile 只修改当前用户自己的记录
func (s *userService) UpdateProfile(ctx context.Context, actor *model.User, in UpdateProfileInput) (*model.User, error) {
	changes := model.ProfileChanges{
		Name: sanitize.Text(in.Name),
		Bio:  sanitize.Text(in.Bio),
	}
	if in.ProfileImage != nil {
		ref, err := saveImage(ctx, s.images, "users", in.ProfileImage)
		if err != nil {
			return nil, err
		}
		changes.ProfileImage = ref
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = hash
	}

	if !changes.IsEmpty() {
		if err := s.users.UpdateProfile(ctx, actor.ID, changes); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
		s.cache.Invalidate(ctx, actor.ID)
	}
	return s.Get(ctx, actor.ID)
}
