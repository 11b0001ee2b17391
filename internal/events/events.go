package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/pkg/logger"
)

// Action 互动类型
type Action string

const (
	ActionFollow   Action = "follow"
	ActionUnfollow Action = "unfollow"
	ActionLike     Action = "like"
	ActionUnlike   Action = "unlike"
	ActionComment  Action = "comment"
	ActionSave     Action = "save"
	ActionUnsave   Action = "unsave"
)

// Event 一次已成功落库的互动
type Event struct {
	Action   Action    `json:"action"`
	ActorID  string    `json:"actorId"`
	TargetID string    `json:"targetId"`
	OwnerID  string    `json:"ownerId,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher 事件外发；发布失败不影响请求结果
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop 未配置 NATS 时使用
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// NATSPublisher 发布到 <subject>.<action>
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("socialgram"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	subject := p.subject + "." + string(e.Action)
	if err := p.conn.Publish(subject, payload); err != nil {
		logger.Warn("publish engagement event failed", zap.String("subject", subject), zap.Error(err))
	}
}

// Close 刷新缓冲后断开
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Recorder 记录事件，供测试断言
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
