package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"sudooom.rummy/pkg/proto"
)

// CommandHandler 牌桌命令处理器接口
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd *proto.Command) *proto.Reply
	// OwnsGame 牌桌是否在本实例
	OwnsGame(gameID string) bool
}

// SubscriberConfig Worker Pool 配置
type SubscriberConfig struct {
	WorkerCount int // Worker 数量
	BufferSize  int // 消息缓冲区大小
}

// CodeBadCommand 命令无法解析时的应答码
const CodeBadCommand = 11002

// CommandSubscriber 命令订阅器
type CommandSubscriber struct {
	nc            *nats.Conn
	handler       CommandHandler
	logger        *slog.Logger
	subscriptions []*nats.Subscription
	config        SubscriberConfig
	msgChan       chan *nats.Msg
	wg            sync.WaitGroup
	cancelFunc    context.CancelFunc
}

// NewCommandSubscriber 创建命令订阅器
func NewCommandSubscriber(nc *nats.Conn, handler CommandHandler, config SubscriberConfig) *CommandSubscriber {
	// 设置默认值
	if config.WorkerCount <= 0 {
		config.WorkerCount = 16
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}

	return &CommandSubscriber{
		nc:      nc,
		handler: handler,
		logger:  slog.Default(),
		config:  config,
	}
}

// Start 启动订阅
func (s *CommandSubscriber) Start(ctx context.Context) error {
	s.msgChan = make(chan *nats.Msg, s.config.BufferSize)

	workerCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(workerCtx)
	}

	enqueue := func(msg *nats.Msg) {
		select {
		case s.msgChan <- msg:
		default:
			s.logger.Warn("Command buffer full, dropping command", "subject", msg.Subject, "bufferSize", s.config.BufferSize)
		}
	}

	// 新建牌桌使用队列组负载均衡，牌桌命令每个实例都收到
	create, err := s.nc.QueueSubscribe(SubjectCreate, QueueGroupRummy, enqueue)
	if err != nil {
		cancel()
		return err
	}
	games, err := s.nc.Subscribe(SubjectGameCommands, enqueue)
	if err != nil {
		_ = create.Unsubscribe()
		cancel()
		return err
	}

	s.subscriptions = []*nats.Subscription{create, games}
	s.logger.Info("NATS command subscriber started",
		"subjects", []string{SubjectCreate, SubjectGameCommands},
		"workerCount", s.config.WorkerCount,
		"bufferSize", s.config.BufferSize,
	)
	return nil
}

// worker 工作协程
func (s *CommandSubscriber) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.msgChan:
			if !ok {
				return
			}
			reply, ok := s.process(ctx, msg.Subject, msg.Data)
			if !ok || msg.Reply == "" {
				continue
			}
			if err := msg.Respond(reply); err != nil {
				s.logger.Warn("Failed to respond", "error", err)
			}
		}
	}
}

// process 解析命令并交给处理器，返回编码后的应答
//
// 牌桌不在本实例时返回 false，不应答，由持有牌桌的实例应答。
func (s *CommandSubscriber) process(ctx context.Context, subject string, data []byte) ([]byte, bool) {
	gameID, forGame := ParseGameCommandSubject(subject)
	if forGame && !s.handler.OwnsGame(gameID) {
		return nil, false
	}

	reply := s.dispatch(ctx, subject, gameID, data)
	out, err := json.Marshal(reply)
	if err != nil {
		s.logger.Error("Failed to marshal reply", "error", err)
		return nil, false
	}
	return out, true
}

func (s *CommandSubscriber) dispatch(ctx context.Context, subject, gameID string, data []byte) *proto.Reply {
	var cmd proto.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.logger.Error("Failed to unmarshal command", "subject", subject, "error", err)
		return &proto.Reply{Code: CodeBadCommand, Message: err.Error()}
	}

	switch {
	case subject == SubjectCreate && cmd.Action != proto.ActionCreate:
		return &proto.Reply{Code: CodeBadCommand, Message: fmt.Sprintf("action %q not allowed on %s", cmd.Action, subject)}
	case subject != SubjectCreate && cmd.Action == proto.ActionCreate:
		return &proto.Reply{Code: CodeBadCommand, Message: fmt.Sprintf("create must be sent to %s", SubjectCreate)}
	}
	if gameID != "" {
		cmd.GameID = gameID
	}

	s.logger.Debug("Received command", "action", cmd.Action, "gameId", cmd.GameID)
	return s.handler.HandleCommand(ctx, &cmd)
}

// Stop 停止订阅
func (s *CommandSubscriber) Stop() error {
	for _, sub := range s.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Error("Failed to unsubscribe", "subject", sub.Subject, "error", err)
		}
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.wg.Wait()

	s.logger.Info("NATS command subscriber stopped")
	return nil
}

// GetBufferUsage 获取缓冲区使用情况，供健康检查上报
func (s *CommandSubscriber) GetBufferUsage() (current int, capacity int) {
	if s.msgChan == nil {
		return 0, 0
	}
	return len(s.msgChan), cap(s.msgChan)
}
