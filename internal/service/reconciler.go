package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/pkg/logger"
	"github.com/d60-Lab/socialgram/pkg/metrics"
)

// RelationReconciler 关注/粉丝双表一致性巡检，以 following 一侧为准修复
type RelationReconciler struct {
	auditor repository.RelationAuditor
	cache   cache.UserCache
	batch   int
}

func NewRelationReconciler(auditor repository.RelationAuditor, userCache cache.UserCache, batch int) *RelationReconciler {
	if batch <= 0 {
		batch = 500
	}
	if userCache == nil {
		userCache = cache.Nop{}
	}
	return &RelationReconciler{auditor: auditor, cache: userCache, batch: batch}
}

// RunOnce 扫描并修复一批单边关系，返回修复条数
func (r *RelationReconciler) RunOnce(ctx context.Context) (int, error) {
	found, err := r.auditor.Asymmetries(ctx, r.batch)
	if err != nil {
		return 0, fmt.Errorf("scan asymmetries: %w", err)
	}
	repaired := 0
	for _, a := range found {
		if err := r.auditor.Repair(ctx, a); err != nil {
			logger.Warn("repair relation failed",
				zap.String("follower", a.FollowerID),
				zap.String("followee", a.FolloweeID),
				zap.Error(err))
			continue
		}
		kind := "stale_fan"
		if a.MissingFan {
			kind = "missing_fan"
		}
		metrics.RelationRepairs.WithLabelValues(kind).Inc()
		r.cache.Invalidate(ctx, a.FollowerID, a.FolloweeID)
		repaired++
	}
	if repaired > 0 {
		logger.Info("relations reconciled", zap.Int("repaired", repaired), zap.Int("found", len(found)))
	}
	return repaired, nil
}

// Start 按 interval 周期巡检；返回的函数停止巡检并等待当前一轮结束
func (r *RelationReconciler) Start(interval time.Duration) func(context.Context) error {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if _, err := r.RunOnce(ctx); err != nil {
					logger.Error("relation reconcile failed", zap.Error(err))
				}
				cancel()
			case <-stopCh:
				return
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stopCh)
		select {
		case <-doneCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
