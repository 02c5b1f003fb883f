package classic

import "sudooom.rummy/internal/game/rummy/core"

// Settler 罚分结算器
type Settler struct{}

// NewSettler 创建结算器
func NewSettler() *Settler {
	return &Settler{}
}

// Calculate 按座位顺序计算每位玩家剩余手牌的罚分 (百搭牌计 30)
func (s *Settler) Calculate(state *core.GameState, winnerID int) *core.Settlement {
	results := make([]core.PlayerResult, 0, len(state.Players))
	for _, player := range state.Players {
		hand := state.Hand(player.ID)
		results = append(results, core.PlayerResult{
			PlayerID:       player.ID,
			Name:           player.Name,
			TilesRemaining: len(hand),
			Penalty:        core.PenaltyValue(hand),
		})
	}

	return &core.Settlement{
		WinnerID: winnerID,
		Results:  results,
	}
}
