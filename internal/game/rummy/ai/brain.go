package ai

import (
	"math/rand"
	"time"

	"sudooom.rummy/internal/game/rummy/core"
)

// DefaultPlayChance 基础策略在有候选组合时出牌的概率
const DefaultPlayChance = 0.7

// Brain 电脑玩家策略接口
type Brain interface {
	// ChooseMove 为轮到的电脑玩家提出一个动作，只读状态
	ChooseMove(state *core.GameState, playerID int) core.Move
}

// NewBrain 根据难度创建策略，easy 与 medium 共用基础策略
func NewBrain(difficulty core.Difficulty, rng *rand.Rand, playChance float64) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if playChance <= 0 || playChance > 1 {
		playChance = DefaultPlayChance
	}

	switch difficulty {
	case core.DifficultyEasy, core.DifficultyMedium, "":
		return &BasicBrain{rand: rng, playChance: playChance}, nil
	case core.DifficultyHard:
		return &HardBrain{rand: rng}, nil
	default:
		return nil, core.ErrInvalidSetup.Detailf("unknown difficulty %q", difficulty)
	}
}

// BasicBrain 基础策略：按点数找三张，按概率出牌，否则摸牌
type BasicBrain struct {
	rand       *rand.Rand
	playChance float64
}

// ChooseMove 提出动作
func (b *BasicBrain) ChooseMove(state *core.GameState, playerID int) core.Move {
	candidates := FindValueSets(state.Hand(playerID))
	if len(candidates) == 0 {
		return core.DrawMove(playerID)
	}
	// 摸牌堆已空时不再按概率放弃，直接出点数最高的组合
	if len(state.DrawPile) == 0 {
		return core.PlaceMove(playerID, core.TileIDs(highestValue(candidates))...)
	}
	if b.rand.Float64() >= b.playChance {
		return core.DrawMove(playerID)
	}

	pick := candidates[b.rand.Intn(len(candidates))]
	return core.PlaceMove(playerID, core.TileIDs(pick)...)
}

func highestValue(candidates [][]core.Tile) []core.Tile {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if core.MeldValue(c) > core.MeldValue(best) {
			best = c
		}
	}
	return best
}

// HardBrain 进阶策略：同时考虑同色顺子，优先减少手牌数和高分牌
type HardBrain struct {
	rand *rand.Rand
}

// ChooseMove 提出动作
func (b *HardBrain) ChooseMove(state *core.GameState, playerID int) core.Move {
	player := state.GetPlayer(playerID)
	if player == nil {
		return core.DrawMove(playerID)
	}
	hand := state.Hand(playerID)

	candidates := append(FindValueSets(hand), FindRuns(hand)...)
	best := []core.Tile(nil)
	bestScore := -1
	for _, c := range candidates {
		value := core.MeldValue(c)
		if !player.HasInitialMeld && value < state.Config.InitialMeldThreshold {
			continue
		}
		score := len(c)*100 + value
		if score > bestScore || (score == bestScore && b.rand.Intn(2) == 0) {
			best, bestScore = c, score
		}
	}

	if best == nil {
		return core.DrawMove(playerID)
	}
	return core.PlaceMove(playerID, core.TileIDs(best)...)
}
