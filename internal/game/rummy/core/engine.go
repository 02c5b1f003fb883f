package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Engine 通用游戏引擎实现
type Engine struct {
	state         *GameState
	deckGenerator DeckGenerator
	moveHandler   MoveHandler
	settler       Settler
	logger        *slog.Logger
	now           func() time.Time
}

// NewEngine 创建游戏引擎
func NewEngine(deckGen DeckGenerator, moveHandler MoveHandler, settler Settler) *Engine {
	return &Engine{
		deckGenerator: deckGen,
		moveHandler:   moveHandler,
		settler:       settler,
		logger:        slog.Default(),
		now:           time.Now,
	}
}

// Initialize 初始化一局：生成牌池、洗牌、建玩家、发牌
func (e *Engine) Initialize(ctx context.Context, setups []PlayerSetup, config GameConfig) error {
	config = config.withDefaults()
	e.logger.Info("初始化牌局", "playerCount", len(setups))

	players, err := buildPlayers(setups, config)
	if err != nil {
		return err
	}
	if need := len(players)*config.HandSize + 1; need > TotalTiles {
		return ErrInvalidSetup.Detailf("%d players with %d tiles each exceed the pool", len(players), config.HandSize)
	}

	deck := e.deckGenerator.GenerateDeck()
	if len(deck) != TotalTiles {
		return ErrIntegrity.Detailf("generated %d tiles", len(deck))
	}
	e.deckGenerator.Shuffle(deck)

	hands, remaining := e.deckGenerator.Deal(deck, len(players), config.HandSize)

	e.state = &GameState{
		Players:       players,
		Hands:         hands,
		Groups:        []*TableGroup{},
		DrawPile:      remaining,
		CurrentPlayer: 0,
		Phase:         PhasePlaying,
		WinnerID:      -1,
		History:       []ActionRecord{},
		NextGroupID:   1,
		Config:        config,
	}

	e.logger.Info("牌局初始化成功",
		"drawPile", len(remaining),
		"firstPlayer", players[0].Name)
	return nil
}

// buildPlayers 校验开局设置并补全默认名称
func buildPlayers(setups []PlayerSetup, config GameConfig) ([]*Player, error) {
	if len(setups) < config.MinPlayers || len(setups) > config.MaxPlayers {
		return nil, ErrInvalidSetup.Detailf("need %d-%d players, got %d",
			config.MinPlayers, config.MaxPlayers, len(setups))
	}

	players := make([]*Player, len(setups))
	computers := 0
	for i, s := range setups {
		p := &Player{ID: i, Name: s.Name, Computer: s.Computer}
		if s.Computer {
			computers++
			d, err := ParseDifficulty(string(s.Difficulty))
			if err != nil {
				return nil, err
			}
			p.Difficulty = d
			if p.Name == "" {
				p.Name = fmt.Sprintf("AI%d", computers)
			}
		} else if p.Name == "" {
			p.Name = fmt.Sprintf("Player%d", i+1)
		}
		players[i] = p
	}
	return players, nil
}

// HandleMove 处理玩家动作
//
// 被拒绝的动作不修改状态。摸牌成功或结束回合后轮到下一位；
// 任何动作使行动者手牌清空时本局立即结束。
func (e *Engine) HandleMove(ctx context.Context, move Move) (*MoveOutcome, error) {
	if e.state == nil {
		return nil, ErrRoundNotStarted
	}
	if e.state.Phase == PhaseEnded {
		return nil, ErrRoundOver
	}

	e.logger.Debug("处理玩家动作",
		"playerId", move.PlayerID,
		"moveType", move.Type.String())

	if err := e.moveHandler.ValidateMove(e.state, move); err != nil {
		return nil, fmt.Errorf("动作验证失败: %w", err)
	}

	outcome, err := e.moveHandler.ExecuteMove(e.state, move)
	if err != nil {
		return nil, fmt.Errorf("动作执行失败: %w", err)
	}

	e.record(move, outcome.GroupID)

	if len(e.state.Hands[move.PlayerID]) == 0 {
		e.endRound(move.PlayerID)
		outcome.RoundEnded = true
	} else if move.Type == MoveDraw || move.Type == MoveEndTurn {
		e.state.NextPlayer()
		outcome.TurnEnded = true
	}

	e.verify()
	return outcome, nil
}

// FinishTurn 结束电脑玩家的回合，人类玩家需通过 EndTurn 动作
func (e *Engine) FinishTurn(ctx context.Context, playerID int) error {
	if e.state == nil {
		return ErrRoundNotStarted
	}
	if e.state.Phase == PhaseEnded {
		return ErrRoundOver
	}
	current := e.state.GetCurrentPlayer()
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}
	if !current.Computer {
		return ErrInvalidMove.Detailf("player %d is not computer controlled", playerID)
	}

	e.record(Move{Type: MoveEndTurn, PlayerID: playerID, From: HandOf(playerID)}, 0)
	e.state.NextPlayer()
	return nil
}

// AvailableMoves 获取玩家当前可用的动作
func (e *Engine) AvailableMoves(playerID int) []MoveType {
	if e.state == nil || e.state.Phase == PhaseEnded {
		return nil
	}
	return e.moveHandler.AvailableMoves(e.state, playerID)
}

// record 记录历史
func (e *Engine) record(move Move, groupID GroupID) {
	move.TileIDs = append([]TileID(nil), move.TileIDs...)
	e.state.History = append(e.state.History, ActionRecord{
		TurnSeq:   e.state.TurnSeq,
		Move:      move,
		GroupID:   groupID,
		Timestamp: e.now(),
	})
}

// endRound 结束本局并结算
func (e *Engine) endRound(winnerID int) {
	e.state.Phase = PhaseEnded
	e.state.WinnerID = winnerID
	e.state.Settlement = e.settler.Calculate(e.state, winnerID)

	e.logger.Info("本局结束",
		"winner", winnerID,
		"turnSeq", e.state.TurnSeq)
}

// verify 校验牌数守恒，失败只记录日志
func (e *Engine) verify() {
	if err := e.state.CheckIntegrity(); err != nil {
		e.logger.Error("牌数校验失败", "error", err)
	}
}

// GetState 获取游戏状态
func (e *Engine) GetState() *GameState {
	return e.state
}

// IsGameOver 检查本局是否结束
func (e *Engine) IsGameOver() bool {
	if e.state == nil {
		return false
	}
	return e.state.Phase == PhaseEnded
}

// GetSettlement 获取结算结果
func (e *Engine) GetSettlement() *Settlement {
	if e.state == nil {
		return nil
	}
	return e.state.Settlement
}
