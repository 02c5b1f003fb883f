package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"sudooom.rummy/internal/game"
	"sudooom.rummy/internal/game/rummy"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/pkg/response"
)

// GameHandler 牌桌命令的 HTTP 入口
type GameHandler struct {
	gameService *game.GameService
	logger      *slog.Logger
}

// NewGameHandler 创建牌桌处理器
func NewGameHandler(gameService *game.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      slog.Default(),
	}
}

// CreateGameRequest 开桌请求，玩家按座位顺序排列
type CreateGameRequest struct {
	Players []core.PlayerSetup `json:"players" binding:"required,min=1"`
}

// PlayerRequest 只携带玩家座位号的请求
type PlayerRequest struct {
	PlayerID *int `json:"playerId" binding:"required"`
}

// TilesRequest 移动若干张牌的请求，from 为空时从手牌取
type TilesRequest struct {
	PlayerID *int            `json:"playerId" binding:"required"`
	TileIDs  []core.TileID   `json:"tileIds" binding:"required,min=1"`
	From     *core.Container `json:"from"`
}

func (r *TilesRequest) source() core.Container {
	if r.From == nil || r.From.Kind != core.ContainerGroup {
		return core.HandOf(*r.PlayerID)
	}
	return core.GroupOf(r.From.GroupID)
}

// CreateGame 新建牌桌并开局
// POST /api/v1/games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	snap, err := h.gameService.CreateGame(c.Request.Context(), req.Players)
	h.reply(c, snap, err)
}

// GetGame 查询牌桌状态，viewer 指定展示谁的手牌
// GET /api/v1/games/:id?viewer=0
func (h *GameHandler) GetGame(c *gin.Context) {
	viewer := -1
	if raw := c.Query("viewer"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.ErrorWithMsg(c, response.CodeInvalidParams, "invalid viewer")
			return
		}
		viewer = v
	}

	snap, err := h.gameService.Snapshot(c.Param("id"), viewer)
	h.reply(c, snap, err)
}

// Draw 摸牌
// POST /api/v1/games/:id/draw
func (h *GameHandler) Draw(c *gin.Context) {
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	snap, err := h.gameService.Draw(c.Request.Context(), c.Param("id"), *req.PlayerID)
	h.reply(c, snap, err)
}

// PlaceOnTable 出牌成新牌组
// POST /api/v1/games/:id/place
func (h *GameHandler) PlaceOnTable(c *gin.Context) {
	var req TilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	snap, err := h.gameService.PlaceOnTable(c.Request.Context(), c.Param("id"), *req.PlayerID, req.TileIDs, req.source())
	h.reply(c, snap, err)
}

// AddToGroup 把牌加入已有牌组
// POST /api/v1/games/:id/groups/:groupId/tiles
func (h *GameHandler) AddToGroup(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("groupId"))
	if err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, "invalid group id")
		return
	}

	var req TilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	snap, err := h.gameService.AddToGroup(c.Request.Context(), c.Param("id"), *req.PlayerID, core.GroupID(groupID), req.TileIDs, req.source())
	h.reply(c, snap, err)
}

// EndTurn 结束回合
// POST /api/v1/games/:id/end-turn
func (h *GameHandler) EndTurn(c *gin.Context) {
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidParams, err.Error())
		return
	}

	snap, err := h.gameService.EndTurn(c.Request.Context(), c.Param("id"), *req.PlayerID)
	h.reply(c, snap, err)
}

// Restart 以相同玩家重开一局
// POST /api/v1/games/:id/restart
func (h *GameHandler) Restart(c *gin.Context) {
	snap, err := h.gameService.Restart(c.Request.Context(), c.Param("id"))
	h.reply(c, snap, err)
}

// CloseGame 关闭牌桌
// DELETE /api/v1/games/:id
func (h *GameHandler) CloseGame(c *gin.Context) {
	if err := h.gameService.CloseGame(c.Param("id")); err != nil {
		gameError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *GameHandler) reply(c *gin.Context, snap *rummy.Snapshot, err error) {
	if err != nil {
		if codeOf(err) == response.CodeServerError {
			h.logger.Error("牌桌命令失败",
				"path", c.FullPath(),
				"gameId", c.Param("id"),
				"error", err)
		}
		gameError(c, err)
		return
	}
	response.Success(c, snap)
}
