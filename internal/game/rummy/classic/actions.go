package classic

import (
	"sudooom.rummy/internal/game/rummy/core"
)

// MoveHandler 经典规则动作处理器
//
// 唯一的合法性规则是首次出牌门槛：尚未完成首次出牌的玩家，
// 一条命令从手牌移到桌面的牌点数之和必须达到门槛。桌面牌型不做校验。
type MoveHandler struct{}

// NewMoveHandler 创建动作处理器
func NewMoveHandler() *MoveHandler {
	return &MoveHandler{}
}

// ValidateMove 验证动作是否合法
func (h *MoveHandler) ValidateMove(state *core.GameState, move core.Move) error {
	player := state.GetPlayer(move.PlayerID)
	if player == nil {
		return core.ErrUnknownPlayer.Detailf("player %d", move.PlayerID)
	}

	// 必须是当前玩家
	if state.GetCurrentPlayer() != player {
		return core.ErrNotYourTurn
	}

	switch move.Type {
	case core.MoveDraw:
		return h.validateDraw(state)
	case core.MovePlaceOnTable:
		return h.validateTiles(state, player, move)
	case core.MoveAddToGroup:
		return h.validateAdd(state, player, move)
	case core.MoveEndTurn:
		return h.validateEndTurn(player)
	default:
		return core.ErrInvalidMove.Detailf("unsupported move type %s", move.Type)
	}
}

// validateDraw 验证摸牌
func (h *MoveHandler) validateDraw(state *core.GameState) error {
	if len(state.DrawPile) == 0 {
		return core.ErrPoolExhausted
	}
	return nil
}

// validateEndTurn 验证结束回合，只有人类玩家可以主动结束
func (h *MoveHandler) validateEndTurn(player *core.Player) error {
	if player.Computer {
		return core.ErrComputerControlled
	}
	return nil
}

// validateAdd 验证加入已有牌组
func (h *MoveHandler) validateAdd(state *core.GameState, player *core.Player, move core.Move) error {
	if g, _ := state.Group(move.GroupID); g == nil {
		return core.ErrGroupNotFound.Detailf("group %d", move.GroupID)
	}
	if src := move.Source(); src.Kind == core.ContainerGroup && src.GroupID == move.GroupID {
		return core.ErrInvalidMove.Detailf("group %d moved into itself", move.GroupID)
	}
	return h.validateTiles(state, player, move)
}

// validateTiles 验证每张牌都在来源容器中，并检查首次出牌门槛
func (h *MoveHandler) validateTiles(state *core.GameState, player *core.Player, move core.Move) error {
	if len(move.TileIDs) == 0 {
		return core.ErrInvalidMove.Detailf("no tiles given")
	}

	src := move.Source()
	seen := make(map[core.TileID]bool, len(move.TileIDs))
	played := make([]core.Tile, 0, len(move.TileIDs))
	for _, id := range move.TileIDs {
		if seen[id] {
			return core.ErrInvalidMove.Detailf("tile %d given twice", id)
		}
		seen[id] = true

		tile, err := state.FindTile(src, id)
		if err != nil {
			return err
		}
		played = append(played, tile)
	}

	// 桌面之间移动不是出牌，不检查门槛
	if src.Kind != core.ContainerHand || player.HasInitialMeld {
		return nil
	}
	if sum := core.MeldValue(played); sum < state.Config.InitialMeldThreshold {
		return core.ErrMeldBelowThreshold.Detailf("%d < %d", sum, state.Config.InitialMeldThreshold)
	}
	return nil
}

// ExecuteMove 执行动作
func (h *MoveHandler) ExecuteMove(state *core.GameState, move core.Move) (*core.MoveOutcome, error) {
	player := state.GetPlayer(move.PlayerID)
	if player == nil {
		return nil, core.ErrUnknownPlayer.Detailf("player %d", move.PlayerID)
	}

	outcome := &core.MoveOutcome{Move: move}

	switch move.Type {
	case core.MoveDraw:
		tile, err := state.DrawTile(player.ID)
		if err != nil {
			return nil, err
		}
		outcome.Drawn = &tile

	case core.MovePlaceOnTable:
		group := state.NewGroup(player.ID)
		if err := h.relocateAll(state, move, group.ID); err != nil {
			return nil, err
		}
		outcome.GroupID = group.ID
		outcome.InitialMeld = h.markInitialMeld(player, move)

	case core.MoveAddToGroup:
		if err := h.relocateAll(state, move, move.GroupID); err != nil {
			return nil, err
		}
		outcome.GroupID = move.GroupID
		outcome.InitialMeld = h.markInitialMeld(player, move)

	case core.MoveEndTurn:
		// 换人由引擎处理

	default:
		return nil, core.ErrInvalidMove.Detailf("unsupported move type %s", move.Type)
	}

	return outcome, nil
}

// relocateAll 把动作中的牌依次移入目标牌组
func (h *MoveHandler) relocateAll(state *core.GameState, move core.Move, target core.GroupID) error {
	src := move.Source()
	for _, id := range move.TileIDs {
		if err := state.Relocate(id, src, core.GroupOf(target)); err != nil {
			return err
		}
	}
	return nil
}

// markInitialMeld 手牌出牌成功后置位首次出牌标记，返回是否本次置位
func (h *MoveHandler) markInitialMeld(player *core.Player, move core.Move) bool {
	if player.HasInitialMeld || move.Source().Kind != core.ContainerHand {
		return false
	}
	player.HasInitialMeld = true
	return true
}

// AvailableMoves 获取玩家当前可用的动作
func (h *MoveHandler) AvailableMoves(state *core.GameState, playerID int) []core.MoveType {
	player := state.GetCurrentPlayer()
	if player == nil || player.ID != playerID {
		return nil
	}

	moves := []core.MoveType{}
	if len(state.DrawPile) > 0 {
		moves = append(moves, core.MoveDraw)
	}
	if len(state.Hand(playerID)) > 0 || len(state.Groups) > 0 {
		moves = append(moves, core.MovePlaceOnTable)
	}
	if len(state.Groups) > 0 {
		moves = append(moves, core.MoveAddToGroup)
	}
	if !player.Computer {
		moves = append(moves, core.MoveEndTurn)
	}
	return moves
}
