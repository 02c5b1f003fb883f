package core

import "context"

// GameEngine 游戏引擎接口
type GameEngine interface {
	// Initialize 初始化一局
	Initialize(ctx context.Context, setups []PlayerSetup, config GameConfig) error

	// HandleMove 处理玩家动作
	HandleMove(ctx context.Context, move Move) (*MoveOutcome, error)

	// FinishTurn 结束电脑玩家的回合
	FinishTurn(ctx context.Context, playerID int) error

	// AvailableMoves 获取玩家当前可用的动作
	AvailableMoves(playerID int) []MoveType

	// GetState 获取游戏状态
	GetState() *GameState

	// IsGameOver 检查本局是否结束
	IsGameOver() bool

	// GetSettlement 获取结算结果
	GetSettlement() *Settlement
}

// DeckGenerator 牌池生成器接口
type DeckGenerator interface {
	// GenerateDeck 按顺序生成 106 张牌
	GenerateDeck() []Tile

	// Shuffle 洗牌
	Shuffle(tiles []Tile)

	// Deal 从牌池头部按座位顺序发牌
	Deal(tiles []Tile, playerCount int, handSize int) (hands map[int][]Tile, remaining []Tile)
}

// MoveHandler 动作处理器接口
type MoveHandler interface {
	// ValidateMove 验证动作是否合法，不修改状态
	ValidateMove(state *GameState, move Move) error

	// ExecuteMove 执行已通过验证的动作
	ExecuteMove(state *GameState, move Move) (*MoveOutcome, error)

	// AvailableMoves 获取玩家当前可用的动作
	AvailableMoves(state *GameState, playerID int) []MoveType
}

// Settler 结算器接口
type Settler interface {
	// Calculate 计算结算结果
	Calculate(state *GameState, winnerID int) *Settlement
}
