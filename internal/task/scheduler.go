package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// 调度器错误
var (
	ErrAlreadyRunning = errors.New("scheduler already running")
	ErrNotRunning     = errors.New("scheduler not running")
	ErrInvalidTask    = errors.New("task is nil or has no id")
	ErrTaskNotFound   = errors.New("task not found")
)

// Config 调度器配置
type Config struct {
	Tick        time.Duration // 时间轮刻度
	Slots       int           // 时间轮槽位数
	Workers     int           // 工作协程数
	TaskTimeout time.Duration // 单个任务执行超时
}

// DefaultConfig 默认调度器配置
func DefaultConfig() Config {
	return Config{
		Tick:        DefaultTick,
		Slots:       DefaultSlotCount,
		Workers:     10,
		TaskTimeout: 10 * time.Second,
	}
}

// Scheduler 延迟任务调度器：时间轮负责计时，到期任务交给工作池执行
type Scheduler struct {
	wheel *TimeWheel
	pool  *WorkerPool

	mu      sync.RWMutex // 保护 running 与 cancel
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	logger *slog.Logger
}

// NewScheduler 创建任务调度器
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{
		wheel:  NewTimeWheel(cfg.Tick, cfg.Slots),
		pool:   NewWorkerPool(cfg.Workers, cfg.TaskTimeout),
		logger: slog.Default().With("component", "Scheduler"),
	}
}

// Start 启动调度器，停止后不能再次启动
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.done != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	s.pool.Start()
	go s.loop(ctx)

	s.logger.Info("任务调度器已启动",
		"tick", s.wheel.tick,
		"slots", s.wheel.SlotCount())
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := s.wheel.GetTicker()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if due := s.wheel.Tick(); len(due) > 0 {
				s.pool.SubmitBatch(due)
			}
		}
	}
}

// Stop 停止调度器，未到期的任务被丢弃
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	<-s.done
	s.wheel.Stop()
	s.pool.Stop()

	s.logger.Info("任务调度器已停止", "dropped", s.wheel.GetTotalTaskCount())
}

// AddTask 添加任务，同 ID 的未到期任务被替换
func (s *Scheduler) AddTask(task *Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return ErrNotRunning
	}
	if task == nil || task.ID == "" {
		return ErrInvalidTask
	}

	s.logger.Debug("添加任务",
		"taskID", task.ID,
		"target", task.Target,
		"delay", task.Delay)

	return s.wheel.AddTask(task)
}

// RemoveTask 删除尚未到期的任务
func (s *Scheduler) RemoveTask(taskID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return ErrNotRunning
	}
	if !s.wheel.RemoveTask(taskID) {
		return ErrTaskNotFound
	}
	return nil
}

// IsRunning 检查调度器是否运行中
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

// Stats 调度器统计
type Stats struct {
	Running     bool      `json:"running"`
	CurrentSlot int       `json:"currentSlot"`
	Pending     int       `json:"pending"`
	Pool        PoolStats `json:"pool"`
}

// GetStats 获取调度器统计信息
func (s *Scheduler) GetStats() Stats {
	return Stats{
		Running:     s.IsRunning(),
		CurrentSlot: s.wheel.GetCurrentSlot(),
		Pending:     s.wheel.GetTotalTaskCount(),
		Pool:        s.pool.Stats(),
	}
}
