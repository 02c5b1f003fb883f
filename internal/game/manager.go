package game

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// GameManager 牌桌管理器
type GameManager struct {
	games sync.Map // gameId -> *Game
	count atomic.Int64

	// 淘汰配置
	maxGames     int           // 0 表示不限
	evictTimeout time.Duration // 0 表示不淘汰
	evictTicker  *time.Ticker

	stopChan chan struct{} // 停止信号通道
	stopOnce sync.Once
	closed   atomic.Bool

	logger *slog.Logger
}

// NewGameManager 创建牌桌管理器
func NewGameManager(maxGames int, evictTimeout time.Duration) *GameManager {
	interval := 60 * time.Second
	if evictTimeout > 0 && evictTimeout/2 < interval {
		interval = evictTimeout / 2
	}

	m := &GameManager{
		maxGames:     maxGames,
		evictTimeout: evictTimeout,
		evictTicker:  time.NewTicker(interval),
		stopChan:     make(chan struct{}),
		logger:       slog.Default().With("component", "GameManager"),
	}

	go m.evictLoop()

	return m
}

// Add 登记牌桌
func (m *GameManager) Add(game *Game) error {
	if m.closed.Load() {
		return ErrManagerClosed
	}
	if err := m.reserve(); err != nil {
		return err
	}
	if _, loaded := m.games.LoadOrStore(game.ID(), game); loaded {
		m.count.Add(-1)
	}
	return nil
}

// reserve 占用一个牌桌名额
func (m *GameManager) reserve() error {
	for {
		n := m.count.Load()
		if m.maxGames > 0 && n >= int64(m.maxGames) {
			return ErrTooManyGames
		}
		if m.count.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Get 获取牌桌并刷新活跃时间
func (m *GameManager) Get(gameID string) (*Game, bool) {
	val, ok := m.games.Load(gameID)
	if !ok {
		return nil, false
	}
	game := val.(*Game)
	game.Touch()
	return game, true
}

// Has 牌桌是否已登记，不刷新活跃时间
func (m *GameManager) Has(gameID string) bool {
	_, ok := m.games.Load(gameID)
	return ok
}

// Remove 移除牌桌
func (m *GameManager) Remove(gameID string) {
	if val, loaded := m.games.LoadAndDelete(gameID); loaded {
		m.count.Add(-1)
		val.(*Game).Close()
		m.logger.Info("Removed game", "gameId", gameID)
	}
}

// Count 返回当前牌桌数
func (m *GameManager) Count() int {
	return int(m.count.Load())
}

// evictLoop 淘汰循环
func (m *GameManager) evictLoop() {
	for {
		select {
		case now := <-m.evictTicker.C:
			m.EvictInactive(now)
		case <-m.stopChan:
			m.logger.Info("Evict loop stopped")
			return
		}
	}
}

// EvictInactive 淘汰 now 之前超过 evictTimeout 未活跃的牌桌，返回淘汰数量
func (m *GameManager) EvictInactive(now time.Time) int {
	if m.evictTimeout <= 0 {
		return 0
	}

	toEvict := []string{}
	m.games.Range(func(key, value any) bool {
		game := value.(*Game)
		if now.Sub(game.LastActiveTime()) > m.evictTimeout {
			toEvict = append(toEvict, key.(string))
		}
		return true
	})

	for _, gameID := range toEvict {
		m.Remove(gameID)
		m.logger.Info("Evicted inactive game", "gameId", gameID)
	}
	return len(toEvict)
}

// Shutdown 关闭管理器
func (m *GameManager) Shutdown(ctx context.Context) error {
	m.stopOnce.Do(func() {
		m.logger.Info("Shutting down GameManager", "games", m.Count())
		m.closed.Store(true)
		close(m.stopChan)
		m.evictTicker.Stop()
	})
	return nil
}
