package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"sudooom.rummy/internal/game/rummy"
	"sudooom.rummy/internal/game/rummy/core"
)

// GameService 牌桌服务，按牌桌ID把命令分发到对应的 rummy 牌桌
type GameService struct {
	gameManager *GameManager
	rummy       *rummy.Service
	logger      *slog.Logger
}

// NewGameService 创建牌桌服务
func NewGameService(gameManager *GameManager, rummyService *rummy.Service) *GameService {
	return &GameService{
		gameManager: gameManager,
		rummy:       rummyService,
		logger:      slog.Default(),
	}
}

// CreateGame 新建牌桌并开局
func (s *GameService) CreateGame(ctx context.Context, setups []core.PlayerSetup) (*rummy.Snapshot, error) {
	gameID := uuid.NewString()
	table := s.rummy.NewTable(gameID)

	// 先登记再开局，开局即安排的电脑回合只会落在已登记的牌桌上
	if err := s.gameManager.Add(NewGame(gameID, table)); err != nil {
		return nil, err
	}
	snap, err := table.StartRound(ctx, setups)
	if err != nil {
		s.gameManager.Remove(gameID)
		return nil, err
	}

	s.logger.Info("Game created",
		"gameId", gameID,
		"playerCount", len(setups))
	return snap, nil
}

// HasGame 牌桌是否由本实例持有
func (s *GameService) HasGame(gameID string) bool {
	return s.gameManager.Has(gameID)
}

// Snapshot 查询牌桌状态，viewer 小于 0 时展示当前玩家手牌
func (s *GameService) Snapshot(gameID string, viewer int) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.Snapshot(viewer)
}

// Draw 摸牌
func (s *GameService) Draw(ctx context.Context, gameID string, playerID int) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.Draw(ctx, playerID)
}

// PlaceOnTable 出牌成新牌组
func (s *GameService) PlaceOnTable(ctx context.Context, gameID string, playerID int, tileIDs []core.TileID, from core.Container) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.PlaceOnTable(ctx, playerID, tileIDs, from)
}

// AddToGroup 把牌加入已有牌组
func (s *GameService) AddToGroup(ctx context.Context, gameID string, playerID int, groupID core.GroupID, tileIDs []core.TileID, from core.Container) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.AddToGroup(ctx, playerID, groupID, tileIDs, from)
}

// EndTurn 结束回合
func (s *GameService) EndTurn(ctx context.Context, gameID string, playerID int) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.EndTurn(ctx, playerID)
}

// Restart 以相同玩家重开一局
func (s *GameService) Restart(ctx context.Context, gameID string) (*rummy.Snapshot, error) {
	table, err := s.table(gameID)
	if err != nil {
		return nil, err
	}
	return table.Restart(ctx)
}

// CloseGame 移除并关闭牌桌
func (s *GameService) CloseGame(gameID string) error {
	if _, ok := s.gameManager.Get(gameID); !ok {
		return ErrGameNotFound
	}
	s.gameManager.Remove(gameID)
	return nil
}

// GameCount 当前牌桌数
func (s *GameService) GameCount() int {
	return s.gameManager.Count()
}

func (s *GameService) table(gameID string) (*rummy.Table, error) {
	game, ok := s.gameManager.Get(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	return game.Table(), nil
}
