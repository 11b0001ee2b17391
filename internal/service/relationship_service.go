package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/repository"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	ListFollowing(ctx context.Context, userID string) ([]string, error)
	ListFans(ctx context.Context, userID string) ([]string, error)
}

type relationshipService struct {
	users     repository.UserRepository
	relations repository.RelationRepository
	cache     cache.UserCache
	events    events.Publisher
}

func NewRelationshipService(users repository.UserRepository, relations repository.RelationRepository, userCache cache.UserCache, pub events.Publisher) RelationshipService {
	if userCache == nil {
		userCache = cache.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &relationshipService{users: users, relations: relations, cache: userCache, events: pub}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.ensureUser(ctx, toUserID); err != nil {
		return err
	}
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	following, err := s.relations.IsFollowing(ctx, fromUserID, toUserID)
	if err != nil {
		return fmt.Errorf("check relation: %w", err)
	}
	if following {
		return ErrAlreadyFollowing
	}
	if err := s.relations.Follow(ctx, fromUserID, toUserID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("follow %s -> %s: %w", fromUserID, toUserID, err)
	}
	s.cache.Invalidate(ctx, fromUserID, toUserID)
	record(ctx, s.events, events.ActionFollow, fromUserID, toUserID, toUserID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.ensureUser(ctx, toUserID); err != nil {
		return err
	}
	if err := s.relations.Unfollow(ctx, fromUserID, toUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("unfollow %s -> %s: %w", fromUserID, toUserID, err)
	}
	s.cache.Invalidate(ctx, fromUserID, toUserID)
	record(ctx, s.events, events.ActionUnfollow, fromUserID, toUserID, toUserID)
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.relations.Following(ctx, userID)
}

func (s *relationshipService) ListFans(ctx context.Context, userID string) ([]string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.relations.Followers(ctx, userID)
}

func (s *relationshipService) ensureUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user %s: %w", id, err)
	}
	return nil
}
