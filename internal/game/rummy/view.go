package rummy

import (
	"time"

	"sudooom.rummy/internal/game/rummy/core"
)

// PlayerView 对外展示的玩家信息，不含手牌
type PlayerView struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Computer       bool            `json:"isAI"`
	Difficulty     core.Difficulty `json:"difficulty,omitempty"`
	TileCount      int             `json:"tileCount"`
	HasInitialMeld bool            `json:"hasInitialMeld"`
}

// GroupView 桌面牌组
type GroupView struct {
	ID      core.GroupID `json:"id"`
	OwnerID int          `json:"ownerId"`
	Tiles   []core.Tile  `json:"tiles"`
	Valid   bool         `json:"valid"` // 仅供展示，是否为顺子或同点组合
}

// Snapshot 每次状态变化后推送给展示层的只读副本
type Snapshot struct {
	GameID        string              `json:"gameId"`
	RoundID       string              `json:"roundId"`
	Phase         core.Phase          `json:"phase"`
	TurnSeq       int64               `json:"turnSeq"`
	CurrentPlayer int                 `json:"currentPlayer"`
	Players       []PlayerView        `json:"players"`
	HandOwner     int                 `json:"handOwner"`
	Hand          []core.Tile         `json:"hand"`
	Groups        []GroupView         `json:"groups"`
	DrawPileCount int                 `json:"drawPileCount"`
	Available     []core.MoveType     `json:"availableMoves,omitempty"`
	WinnerID      int                 `json:"winnerId"`
	Results       []core.PlayerResult `json:"results,omitempty"`
	Notice        string              `json:"notice,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// buildSnapshot 复制状态，viewer 小于 0 时展示当前玩家的手牌
func buildSnapshot(state *core.GameState, viewer int) *Snapshot {
	snap := &Snapshot{
		Phase:         state.Phase,
		TurnSeq:       state.TurnSeq,
		CurrentPlayer: state.CurrentPlayer,
		Players:       make([]PlayerView, 0, len(state.Players)),
		Groups:        make([]GroupView, 0, len(state.Groups)),
		DrawPileCount: len(state.DrawPile),
		WinnerID:      state.WinnerID,
		UpdatedAt:     time.Now(),
	}

	for _, p := range state.Players {
		snap.Players = append(snap.Players, PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			Computer:       p.Computer,
			Difficulty:     p.Difficulty,
			TileCount:      len(state.Hand(p.ID)),
			HasInitialMeld: p.HasInitialMeld,
		})
	}

	if viewer < 0 {
		if current := state.GetCurrentPlayer(); current != nil {
			viewer = current.ID
		}
	}
	snap.HandOwner = viewer
	snap.Hand = core.CloneTiles(state.Hand(viewer))

	for _, g := range state.Groups {
		snap.Groups = append(snap.Groups, GroupView{
			ID:      g.ID,
			OwnerID: g.OwnerID,
			Tiles:   core.CloneTiles(g.Tiles),
			Valid:   core.IsRun(g.Tiles) || core.IsSameValueSet(g.Tiles),
		})
	}

	if state.Settlement != nil {
		snap.Results = append([]core.PlayerResult(nil), state.Settlement.Results...)
	}
	return snap
}

// Player 查找玩家视图
func (s *Snapshot) Player(id int) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}
