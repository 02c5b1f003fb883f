package proto

import (
	"encoding/json"

	"sudooom.rummy/internal/game/rummy/core"
)

// 命令类型
const (
	ActionCreate   = "create"
	ActionSnapshot = "snapshot"
	ActionDraw     = "draw"
	ActionPlace    = "place"
	ActionAdd      = "add"
	ActionEndTurn  = "end_turn"
	ActionRestart  = "restart"
	ActionClose    = "close"
)

// Command 经 NATS 请求-应答提交的牌桌命令
type Command struct {
	Action   string             `json:"action"`
	GameID   string             `json:"gameId,omitempty"`
	PlayerID int                `json:"playerId"`
	Viewer   *int               `json:"viewer,omitempty"`
	TileIDs  []core.TileID      `json:"tileIds,omitempty"`
	From     *core.Container    `json:"from,omitempty"`
	GroupID  core.GroupID       `json:"groupId,omitempty"`
	Players  []core.PlayerSetup `json:"players,omitempty"`
}

// Source 牌的来源，未指定时为命令发起者的手牌
func (c *Command) Source() core.Container {
	if c.From == nil || c.From.Kind != core.ContainerGroup {
		return core.HandOf(c.PlayerID)
	}
	return core.GroupOf(c.From.GroupID)
}

// Reply 命令应答，与 HTTP 响应使用相同的结构
type Reply struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
