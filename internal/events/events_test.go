package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Publish(context.Background(), Event{Action: ActionLike, ActorID: "a", TargetID: "p"})
	r.Publish(context.Background(), Event{Action: ActionUnlike, ActorID: "a", TargetID: "p"})

	got := r.Events()
	assert.Len(t, got, 2)
	assert.Equal(t, ActionUnlike, got[1].Action)
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "socialgram.engagement")
	assert.Error(t, err)
}
