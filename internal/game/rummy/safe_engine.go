package rummy

import (
	"context"
	"sync"

	"sudooom.rummy/internal/game/rummy/core"
)

// SafeEngine 线程安全的引擎包装
type SafeEngine struct {
	mu     sync.RWMutex
	engine core.GameEngine
}

// NewSafeEngine 创建线程安全的引擎
func NewSafeEngine(engine core.GameEngine) *SafeEngine {
	return &SafeEngine{engine: engine}
}

// Initialize 初始化一局
func (e *SafeEngine) Initialize(ctx context.Context, setups []core.PlayerSetup, config core.GameConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engine.Initialize(ctx, setups, config)
}

// HandleMove 处理动作（带锁）
func (e *SafeEngine) HandleMove(ctx context.Context, move core.Move) (*core.MoveOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engine.HandleMove(ctx, move)
}

// FinishTurn 结束电脑玩家回合（带锁）
func (e *SafeEngine) FinishTurn(ctx context.Context, playerID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engine.FinishTurn(ctx, playerID)
}

// View 在读锁内访问状态，未开局时 state 为 nil；fn 不得保留或修改 state
func (e *SafeEngine) View(fn func(state *core.GameState)) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	fn(e.engine.GetState())
}

// Snapshot 生成状态副本，未开局时返回 nil
func (e *SafeEngine) Snapshot(viewer int) *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state := e.engine.GetState()
	if state == nil {
		return nil
	}
	snap := buildSnapshot(state, viewer)
	if state.Phase == core.PhasePlaying {
		snap.Available = e.engine.AvailableMoves(snap.HandOwner)
	}
	return snap
}

// IsGameOver 检查本局是否结束
func (e *SafeEngine) IsGameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.engine.IsGameOver()
}

// GetSettlement 获取结算结果
func (e *SafeEngine) GetSettlement() *core.Settlement {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.engine.GetSettlement()
}
