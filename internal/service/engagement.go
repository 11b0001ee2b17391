package service

import (
	"context"
	"time"

	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/pkg/metrics"
)

// record 互动成功后计数并外发事件
func record(ctx context.Context, pub events.Publisher, action events.Action, actorID, targetID, ownerID string) {
	metrics.Engagements.WithLabelValues(string(action)).Inc()
	pub.Publish(ctx, events.Event{
		Action:   action,
		ActorID:  actorID,
		TargetID: targetID,
		OwnerID:  ownerID,
		At:       time.Now().UTC(),
	})
}
