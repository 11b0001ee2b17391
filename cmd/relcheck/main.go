// relcheck 扫描并修复关注/粉丝两侧不一致的关系数据
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/config"
	"github.com/d60-Lab/socialgram/internal/bootstrap"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return v
}

func main() {
	batch := flag.Int("batch", 0, "每轮最多修复条数，0 使用配置值")
	dryRun := flag.Bool("dry-run", false, "只报告不修复")
	timeout := flag.Duration("timeout", 5*time.Minute, "整体超时")
	flag.Parse()

	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := must(bootstrap.OpenStore(ctx, cfg))
	defer func() { _ = store.Close() }()

	n := *batch
	if n <= 0 {
		n = cfg.Relation.ReconcileBatch
	}

	if *dryRun {
		found := must(store.Auditor.Asymmetries(ctx, n))
		for _, a := range found {
			fmt.Printf("follower=%s followee=%s missing_fan=%t\n", a.FollowerID, a.FolloweeID, a.MissingFan)
		}
		fmt.Printf("found %d asymmetric relations\n", len(found))
		return
	}

	userCache, closeCache := must2(bootstrap.UserCache(ctx, cfg.Redis))
	defer func() { _ = closeCache() }()

	r := service.NewRelationReconciler(store.Auditor, userCache, n)
	total := 0
	for {
		repaired := must(r.RunOnce(ctx))
		total += repaired
		if repaired < n {
			break
		}
	}
	logger.Info("relcheck finished", zap.Int("repaired", total))
	fmt.Printf("repaired %d relations\n", total)
}

func must2[A, B any](a A, b B, err error) (A, B) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return a, b
}
