package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/pkg/jwtutil"
)

// AuthService 凭证校验：把 bearer token 解析为当前用户
type AuthService interface {
	// Verify 缺失、格式错误、过期、签名不符或用户不存在一律返回 ErrUnauthenticated
	Verify(ctx context.Context, token string) (*model.User, error)
	IssueToken(userID string) (string, error)
}

type authService struct {
	tokens *jwtutil.Manager
	users  repository.UserRepository
	cache  cache.UserCache
}

func NewAuthService(tokens *jwtutil.Manager, users repository.UserRepository, userCache cache.UserCache) AuthService {
	if userCache == nil {
		userCache = cache.Nop{}
	}
	return &authService{tokens: tokens, users: users, cache: userCache}
}

func (s *authService) Verify(ctx context.Context, token string) (*model.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve token user: %w", err)
	}
	u.Password = ""
	s.cache.Set(ctx, u)
	return u, nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	return s.tokens.Generate(userID)
}

// Hasher 口令摘要
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher Cost 为 0 时使用 bcrypt.DefaultCost
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
