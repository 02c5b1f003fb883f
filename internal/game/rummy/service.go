package rummy

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"sudooom.rummy/internal/game/rummy/ai"
	"sudooom.rummy/internal/game/rummy/classic"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/internal/task"
)

// Scheduler 延迟任务调度，由 task.Scheduler 实现
type Scheduler interface {
	AddTask(t *task.Task) error
	RemoveTask(taskID string) error
}

// Notifier 状态推送，由 nats 发布器实现
type Notifier interface {
	PublishState(ctx context.Context, snap *Snapshot) error
	PublishEvent(ctx context.Context, event *Event) error
}

// 事件类型
const (
	EventRoundStarted  = "round_started"
	EventMove          = "move"
	EventThinking      = "computer_thinking"
	EventPoolExhausted = "pool_exhausted"
	EventRoundEnded    = "round_ended"
	EventStalled       = "stalled"
)

// Event 推送给展示层的事件
type Event struct {
	GameID    string     `json:"gameId"`
	RoundID   string     `json:"roundId"`
	Type      string     `json:"type"`
	PlayerID  int        `json:"playerId"`
	Move      *core.Move `json:"move,omitempty"`
	Notice    string     `json:"notice,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Config 牌桌配置
type Config struct {
	Game          core.GameConfig
	PlayChance    float64       // 基础策略出牌概率
	ThinkDelayMin time.Duration // 电脑玩家思考时间下限
	ThinkDelayMax time.Duration // 电脑玩家思考时间上限
}

// DefaultConfig 默认牌桌配置
func DefaultConfig() Config {
	return Config{
		Game:          core.DefaultGameConfig(),
		PlayChance:    ai.DefaultPlayChance,
		ThinkDelayMin: time.Second,
		ThinkDelayMax: 3 * time.Second,
	}
}

// Service 牌桌工厂，持有所有牌桌共享的依赖
type Service struct {
	cfg       Config
	scheduler Scheduler
	notifier  Notifier
	newRand   func() *rand.Rand
	logger    *slog.Logger
}

// Option 服务选项
type Option func(*Service)

// WithRandSource 指定随机源工厂，每局调用一次
func WithRandSource(fn func() *rand.Rand) Option {
	return func(s *Service) {
		s.newRand = fn
	}
}

// NewService 创建牌桌服务，notifier 可以为 nil
func NewService(cfg Config, scheduler Scheduler, notifier Notifier, opts ...Option) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	var seq atomic.Int64
	s := &Service{
		cfg:       cfg,
		scheduler: scheduler,
		notifier:  notifier,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano() + seq.Add(1)))
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEngine 创建线程安全的经典规则引擎
func (s *Service) CreateEngine(rng *rand.Rand) *SafeEngine {
	return NewSafeEngine(classic.NewEngine(rng))
}

// NewTable 创建一张空牌桌，需调用 StartRound 开局
func (s *Service) NewTable(gameID string) *Table {
	return &Table{
		id:     gameID,
		svc:    s,
		logger: s.logger.With("gameId", gameID),
	}
}

// NopNotifier 不推送任何内容
type NopNotifier struct{}

// PublishState 忽略
func (NopNotifier) PublishState(context.Context, *Snapshot) error { return nil }

// PublishEvent 忽略
func (NopNotifier) PublishEvent(context.Context, *Event) error { return nil }
