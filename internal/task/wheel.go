package task

import (
	"sync"
	"time"
)

// 默认时间轮参数：100ms 一格，共 600 格 (一圈 60 秒)
const (
	DefaultTick      = 100 * time.Millisecond
	DefaultSlotCount = 600
)

// TimeWheel 单层时间轮，超过一圈的延迟记录剩余圈数
type TimeWheel struct {
	mu      sync.Mutex
	slots   []*Slot
	tick    time.Duration
	current int
	index   map[string]int // taskID -> 槽位
	ticker  *time.Ticker
}

// NewTimeWheel 创建时间轮
func NewTimeWheel(tick time.Duration, slotCount int) *TimeWheel {
	if tick <= 0 {
		tick = DefaultTick
	}
	if slotCount <= 1 {
		slotCount = DefaultSlotCount
	}

	tw := &TimeWheel{
		slots:  make([]*Slot, slotCount),
		tick:   tick,
		index:  make(map[string]int),
		ticker: time.NewTicker(tick),
	}
	for i := range tw.slots {
		tw.slots[i] = NewSlot()
	}
	return tw
}

// ticksFor 把延迟换算为格数，至少一格
func (tw *TimeWheel) ticksFor(delay time.Duration) int {
	n := int((delay + tw.tick - 1) / tw.tick)
	if n < 1 {
		return 1
	}
	return n
}

// AddTask 添加任务，同 ID 的旧任务先被移除
func (tw *TimeWheel) AddTask(task *Task) error {
	ticks := tw.ticksFor(task.Delay)

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if old, ok := tw.index[task.ID]; ok {
		tw.slots[old].RemoveTask(task.ID)
	}

	slot := (tw.current + ticks) % len(tw.slots)
	task.rounds = (ticks - 1) / len(tw.slots)
	tw.index[task.ID] = slot
	tw.slots[slot].AddTask(task)
	return nil
}

// RemoveTask 删除尚未到期的任务
func (tw *TimeWheel) RemoveTask(taskID string) bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	slot, ok := tw.index[taskID]
	if !ok {
		return false
	}
	delete(tw.index, taskID)
	return tw.slots[slot].RemoveTask(taskID)
}

// Tick 推进一格并取出到期任务 (由调度器调用)
func (tw *TimeWheel) Tick() []*Task {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.current = (tw.current + 1) % len(tw.slots)
	due := tw.slots[tw.current].Due()
	for _, task := range due {
		delete(tw.index, task.ID)
	}
	return due
}

// GetCurrentSlot 获取当前槽位索引
func (tw *TimeWheel) GetCurrentSlot() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	return tw.current
}

// SlotCount 槽位数量
func (tw *TimeWheel) SlotCount() int {
	return len(tw.slots)
}

// Stop 停止时间轮
func (tw *TimeWheel) Stop() {
	tw.ticker.Stop()
}

// GetTicker 获取定时器
func (tw *TimeWheel) GetTicker() *time.Ticker {
	return tw.ticker
}

// GetTotalTaskCount 获取待执行的任务总数
func (tw *TimeWheel) GetTotalTaskCount() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	return len(tw.index)
}
