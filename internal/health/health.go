package health

import (
	"context"
	"encoding/json"
	"net/http"

	"sudooom.rummy/internal/task"
)

// ConnChecker 连接状态，*nats.Client 满足该接口
type ConnChecker interface {
	IsConnected() bool
	Reconnects() uint64
}

// RunChecker 调度器状态，*task.Scheduler 满足该接口
type RunChecker interface {
	IsRunning() bool
	GetStats() task.Stats
}

// BufferReporter 命令缓冲区使用情况，*nats.CommandSubscriber 满足该接口
type BufferReporter interface {
	GetBufferUsage() (current int, capacity int)
}

// Counter 当前牌桌数，*game.GameService 满足该接口
type Counter interface {
	GameCount() int
}

// BufferUsage 缓冲区使用情况
type BufferUsage struct {
	Current  int `json:"current"`
	Capacity int `json:"capacity"`
}

// Status 健康状态
type Status struct {
	NATS           string       `json:"nats"`
	NATSReconnects uint64       `json:"natsReconnects"`
	Scheduler      string       `json:"scheduler"`
	Tasks          task.Stats   `json:"tasks"`
	Games          int          `json:"games"`
	CommandBuffer  *BufferUsage `json:"commandBuffer,omitempty"`
}

// Checker 健康检查器
type Checker struct {
	nats      ConnChecker // 未启用 NATS 时为 nil
	scheduler RunChecker
	games     Counter
	commands  BufferReporter
}

// NewChecker 创建健康检查器
func NewChecker(nats ConnChecker, scheduler RunChecker, games Counter) *Checker {
	return &Checker{
		nats:      nats,
		scheduler: scheduler,
		games:     games,
	}
}

// WithCommandBuffer 上报 NATS 命令缓冲区
func (h *Checker) WithCommandBuffer(commands BufferReporter) *Checker {
	h.commands = commands
	return h
}

// Check 执行健康检查
func (h *Checker) Check(ctx context.Context) *Status {
	status := &Status{}

	// 检查 NATS
	switch {
	case h.nats == nil:
		status.NATS = "disabled"
	case h.nats.IsConnected():
		status.NATS = "connected"
	default:
		status.NATS = "disconnected"
	}
	if h.nats != nil {
		status.NATSReconnects = h.nats.Reconnects()
	}

	// 检查调度器，电脑玩家的回合依赖它
	if h.scheduler != nil && h.scheduler.IsRunning() {
		status.Scheduler = "running"
	} else {
		status.Scheduler = "stopped"
	}
	if h.scheduler != nil {
		status.Tasks = h.scheduler.GetStats()
	}

	if h.games != nil {
		status.Games = h.games.GameCount()
	}
	if h.commands != nil {
		current, capacity := h.commands.GetBufferUsage()
		status.CommandBuffer = &BufferUsage{Current: current, Capacity: capacity}
	}

	return status
}

// IsHealthy 检查是否健康
func (h *Checker) IsHealthy(ctx context.Context) bool {
	return healthy(h.Check(ctx))
}

func healthy(status *Status) bool {
	return status.NATS != "disconnected" && status.Scheduler == "running"
}

// ServeHTTP HTTP 就绪检查端点
func (h *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if healthy(status) {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(status)
}
