package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"sudooom.rummy/internal/game/rummy"
)

// Publisher 发布原始消息，*nats.Conn 满足该接口
type Publisher interface {
	Publish(subject string, data []byte) error
}

// StatePublisher 把牌桌状态和事件推送到 NATS
type StatePublisher struct {
	pub    Publisher
	logger *slog.Logger
}

// NewStatePublisher 创建状态发布器
func NewStatePublisher(pub Publisher) *StatePublisher {
	return &StatePublisher{
		pub:    pub,
		logger: slog.Default(),
	}
}

// PublishState 推送牌桌快照
func (p *StatePublisher) PublishState(ctx context.Context, snap *rummy.Snapshot) error {
	return p.publish(BuildGameStateSubject(snap.GameID), snap)
}

// PublishEvent 推送牌桌事件
func (p *StatePublisher) PublishEvent(ctx context.Context, event *rummy.Event) error {
	return p.publish(BuildGameEventSubject(event.GameID), event)
}

func (p *StatePublisher) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("Failed to marshal message", "subject", subject, "error", err)
		return err
	}

	if err := p.pub.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish", "subject", subject, "error", err)
		return err
	}

	p.logger.Debug("Published message", "subject", subject, "size", len(data))
	return nil
}
