package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"sudooom.rummy/internal/game"
	"sudooom.rummy/internal/game/rummy"
	"sudooom.rummy/pkg/proto"
	"sudooom.rummy/pkg/response"
)

// ErrUnknownAction 命令类型无法识别
var ErrUnknownAction = errors.New("unknown action")

// CommandHandler 处理经 NATS 提交的牌桌命令
type CommandHandler struct {
	gameService *game.GameService
	logger      *slog.Logger
}

// NewCommandHandler 创建命令处理器
func NewCommandHandler(gameService *game.GameService) *CommandHandler {
	return &CommandHandler{
		gameService: gameService,
		logger:      slog.Default(),
	}
}

// HandleCommand 分发命令并把结果编码为应答
func (h *CommandHandler) HandleCommand(ctx context.Context, cmd *proto.Command) *proto.Reply {
	snap, err := h.dispatch(ctx, cmd)
	if err != nil {
		code := codeOf(err)
		if code == response.CodeServerError {
			h.logger.Error("Command failed", "action", cmd.Action, "gameId", cmd.GameID, "error", err)
		}
		return &proto.Reply{Code: code, Message: err.Error()}
	}

	reply := &proto.Reply{Code: response.CodeSuccess, Message: "success"}
	if snap != nil {
		data, err := json.Marshal(snap)
		if err != nil {
			h.logger.Error("Failed to marshal snapshot", "gameId", cmd.GameID, "error", err)
			return &proto.Reply{Code: response.CodeServerError, Message: err.Error()}
		}
		reply.Data = data
	}
	return reply
}

// OwnsGame 牌桌是否由本实例持有
func (h *CommandHandler) OwnsGame(gameID string) bool {
	return h.gameService.HasGame(gameID)
}

func (h *CommandHandler) dispatch(ctx context.Context, cmd *proto.Command) (*rummy.Snapshot, error) {
	switch cmd.Action {
	case proto.ActionCreate:
		return h.gameService.CreateGame(ctx, cmd.Players)
	case proto.ActionSnapshot:
		viewer := -1
		if cmd.Viewer != nil {
			viewer = *cmd.Viewer
		}
		return h.gameService.Snapshot(cmd.GameID, viewer)
	case proto.ActionDraw:
		return h.gameService.Draw(ctx, cmd.GameID, cmd.PlayerID)
	case proto.ActionPlace:
		return h.gameService.PlaceOnTable(ctx, cmd.GameID, cmd.PlayerID, cmd.TileIDs, cmd.Source())
	case proto.ActionAdd:
		return h.gameService.AddToGroup(ctx, cmd.GameID, cmd.PlayerID, cmd.GroupID, cmd.TileIDs, cmd.Source())
	case proto.ActionEndTurn:
		return h.gameService.EndTurn(ctx, cmd.GameID, cmd.PlayerID)
	case proto.ActionRestart:
		return h.gameService.Restart(ctx, cmd.GameID)
	case proto.ActionClose:
		return nil, h.gameService.CloseGame(cmd.GameID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
}
