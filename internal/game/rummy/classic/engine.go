package classic

import (
	"math/rand"

	"sudooom.rummy/internal/game/rummy/core"
)

// Engine 经典规则游戏引擎
type Engine struct {
	*core.Engine
}

// NewEngine 创建经典规则游戏引擎，rng 为 nil 时使用时间种子
func NewEngine(rng *rand.Rand) *Engine {
	deckGen := NewDeckGenerator(rng)
	moveHandler := NewMoveHandler()
	settler := NewSettler()

	return &Engine{
		Engine: core.NewEngine(deckGen, moveHandler, settler),
	}
}
