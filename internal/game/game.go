package game

import (
	"sync"
	"time"

	"sudooom.rummy/internal/game/rummy"
)

// Game 牌桌对象
// 持有一张 rummy 牌桌并记录活跃时间，用于淘汰不活跃的牌桌
type Game struct {
	mu sync.RWMutex

	id         string
	table      *rummy.Table
	createdAt  time.Time
	lastActive time.Time
}

// NewGame 创建牌桌对象
func NewGame(id string, table *rummy.Table) *Game {
	now := time.Now()
	return &Game{
		id:         id,
		table:      table,
		createdAt:  now,
		lastActive: now,
	}
}

// ID 牌桌ID
func (g *Game) ID() string {
	return g.id
}

// Table 返回牌桌命令入口
func (g *Game) Table() *rummy.Table {
	return g.table
}

// CreatedAt 创建时间
func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// Touch 刷新活跃时间
func (g *Game) Touch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActive = time.Now()
}

// LastActiveTime 获取最后活跃时间
func (g *Game) LastActiveTime() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastActive
}

// Close 关闭牌桌
func (g *Game) Close() {
	if g.table != nil {
		g.table.Close()
	}
}
