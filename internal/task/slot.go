package task

import "sync"

// Slot 时间轮槽位，按加入顺序保存任务
type Slot struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewSlot 创建新槽位
func NewSlot() *Slot {
	return &Slot{}
}

// AddTask 添加任务，同 ID 任务原位替换
func (s *Slot) AddTask(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
	s.tasks = append(s.tasks, task)
}

// RemoveTask 从槽位删除任务
func (s *Slot) RemoveTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Due 取出本圈到期的任务，其余任务剩余圈数减一
func (s *Slot) Due() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*Task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.rounds <= 0 {
			due = append(due, t)
			continue
		}
		t.rounds--
		kept = append(kept, t)
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
	return due
}

// Count 获取槽位任务数量
func (s *Slot) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}
