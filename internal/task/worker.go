package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PoolStats 工作池统计
type PoolStats struct {
	Workers   int   `json:"workers"`
	Queued    int   `json:"queued"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"` // 含 panic 与超时
}

// WorkerPool 工作协程池
type WorkerPool struct {
	workerCount int
	taskTimeout time.Duration // 0 表示不限
	taskChan    chan *Task
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	succeeded   atomic.Int64
	failed      atomic.Int64
	logger      *slog.Logger
}

// NewWorkerPool 创建工作协程池
func NewWorkerPool(workerCount int, taskTimeout time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		taskTimeout: taskTimeout,
		taskChan:    make(chan *Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
		logger:      slog.Default().With("component", "WorkerPool"),
	}
}

// Start 启动工作协程池
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	wp.logger.Info("工作协程池已启动", "workerCount", wp.workerCount)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task := <-wp.taskChan:
			if task == nil {
				continue
			}
			if err := wp.run(task); err != nil {
				wp.failed.Add(1)
				wp.logger.Error("任务执行失败",
					"workerID", id,
					"taskID", task.ID,
					"target", task.Target,
					"version", task.Version,
					"error", err)
				continue
			}
			wp.succeeded.Add(1)
		}
	}
}

// run 执行单个任务，panic 转为错误
func (wp *WorkerPool) run(task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := wp.ctx
	if wp.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(wp.ctx, wp.taskTimeout)
		defer cancel()
	}

	return task.Execute(ctx)
}

// Submit 提交任务，队列满时阻塞直到有空位或工作池关闭
func (wp *WorkerPool) Submit(task *Task) {
	select {
	case wp.taskChan <- task:
		return
	case <-wp.ctx.Done():
		wp.logger.Warn("工作池已关闭,任务被丢弃", "taskID", task.ID)
		return
	default:
	}

	wp.logger.Warn("任务通道已满,任务可能延迟执行", "taskID", task.ID)
	select {
	case wp.taskChan <- task:
	case <-wp.ctx.Done():
	}
}

// SubmitBatch 批量提交任务
func (wp *WorkerPool) SubmitBatch(tasks []*Task) {
	for _, task := range tasks {
		wp.Submit(task)
	}
}

// Stats 统计信息
func (wp *WorkerPool) Stats() PoolStats {
	return PoolStats{
		Workers:   wp.workerCount,
		Queued:    len(wp.taskChan),
		Succeeded: wp.succeeded.Load(),
		Failed:    wp.failed.Load(),
	}
}

// Stop 停止工作协程池，队列中未执行的任务被丢弃
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()

	wp.logger.Info("工作协程池已停止",
		"succeeded", wp.succeeded.Load(),
		"failed", wp.failed.Load())
}
