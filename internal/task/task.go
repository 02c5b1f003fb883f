package task

import (
	"context"
	"time"
)

// TaskFunc 任务执行函数类型
type TaskFunc func(ctx context.Context, t *Task) error

// Task 延迟任务
//
// Version 由提交方设置，执行时据此判断任务是否已经过期。
type Task struct {
	ID        string
	Target    string // 操作对象，例如牌桌ID
	Version   int64
	Delay     time.Duration // 按时间轮刻度向上取整
	Fn        TaskFunc
	Metadata  map[string]any
	CreatedAt time.Time

	rounds int // 还需转过的整圈数，由时间轮维护
}

// NewTask 创建新任务
func NewTask(id, target string, delay time.Duration, fn TaskFunc) *Task {
	return &Task{
		ID:        id,
		Target:    target,
		Delay:     delay,
		Fn:        fn,
		Metadata:  make(map[string]any),
		CreatedAt: time.Now(),
	}
}

// WithMetadata 添加元数据
func (t *Task) WithMetadata(key string, value any) *Task {
	t.Metadata[key] = value
	return t
}

// WithVersion 设置版本号
func (t *Task) WithVersion(version int64) *Task {
	t.Version = version
	return t
}

// DueAt 预计到期时间
func (t *Task) DueAt() time.Time {
	return t.CreatedAt.Add(t.Delay)
}

// Execute 执行任务
func (t *Task) Execute(ctx context.Context) error {
	if t.Fn == nil {
		return nil
	}
	return t.Fn(ctx, t)
}
