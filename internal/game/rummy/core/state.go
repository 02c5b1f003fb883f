package core

import "fmt"

// GameState 一局的全部可变状态，由 Engine 独占
//
// 不变量：摸牌堆、所有手牌与所有桌面牌组中的牌合起来恰好是 106 张，
// 每个 ID 只出现一次。
type GameState struct {
	Players       []*Player      `json:"players"`
	Hands         map[int][]Tile `json:"hands"`
	Groups        []*TableGroup  `json:"groups"`
	DrawPile      []Tile         `json:"drawPile"` // 从头部摸牌
	CurrentPlayer int            `json:"currentPlayer"`
	Phase         Phase          `json:"phase"`
	WinnerID      int            `json:"winnerId"` // 未结束时为 -1
	Settlement    *Settlement    `json:"settlement"`
	History       []ActionRecord `json:"history"`
	TurnSeq       int64          `json:"turnSeq"` // 每次换人加一
	NextGroupID   GroupID        `json:"nextGroupId"`
	Config        GameConfig     `json:"config"`
}

// GetPlayer 根据ID获取玩家
func (s *GameState) GetPlayer(playerID int) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// GetCurrentPlayer 获取当前玩家
func (s *GameState) GetCurrentPlayer() *Player {
	if s.CurrentPlayer >= 0 && s.CurrentPlayer < len(s.Players) {
		return s.Players[s.CurrentPlayer]
	}
	return nil
}

// NextPlayer 切换到下一个玩家
func (s *GameState) NextPlayer() {
	s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.Players)
	s.TurnSeq++
}

// Hand 返回玩家手牌 (只读使用)
func (s *GameState) Hand(playerID int) []Tile {
	return s.Hands[playerID]
}

// Group 查找桌面牌组
func (s *GameState) Group(id GroupID) (*TableGroup, int) {
	for i, g := range s.Groups {
		if g.ID == id {
			return g, i
		}
	}
	return nil, -1
}

// NewGroup 分配一个新的空牌组，调用方必须立即放入至少一张牌
func (s *GameState) NewGroup(ownerID int) *TableGroup {
	if s.NextGroupID <= 0 {
		s.NextGroupID = 1
	}
	g := &TableGroup{ID: s.NextGroupID, OwnerID: ownerID}
	s.NextGroupID++
	s.Groups = append(s.Groups, g)
	return g
}

// removeGroup 删除桌面牌组
func (s *GameState) removeGroup(idx int) {
	groups := make([]*TableGroup, 0, len(s.Groups)-1)
	groups = append(groups, s.Groups[:idx]...)
	s.Groups = append(groups, s.Groups[idx+1:]...)
}

// tilesOf 返回容器中的牌
func (s *GameState) tilesOf(c Container) ([]Tile, error) {
	switch c.Kind {
	case ContainerHand:
		hand, ok := s.Hands[c.PlayerID]
		if !ok {
			return nil, ErrUnknownPlayer.Detailf("player %d", c.PlayerID)
		}
		return hand, nil
	case ContainerGroup:
		g, _ := s.Group(c.GroupID)
		if g == nil {
			return nil, ErrGroupNotFound.Detailf("group %d", c.GroupID)
		}
		return g.Tiles, nil
	default:
		return nil, ErrInvalidMove.Detailf("unknown container kind %d", c.Kind)
	}
}

// FindTile 在容器中查找牌
func (s *GameState) FindTile(c Container, id TileID) (Tile, error) {
	tiles, err := s.tilesOf(c)
	if err != nil {
		return Tile{}, err
	}
	idx := IndexOfTile(tiles, id)
	if idx < 0 {
		return Tile{}, ErrTileNotFound.Detailf("tile %d not in %s", id, c)
	}
	return tiles[idx], nil
}

// Relocate 把一张牌从一个容器原子地移到另一个容器
//
// 牌追加到目标容器末尾；来源是桌面牌组且被取空时，该牌组被删除。
// 任何失败都不会修改状态。
func (s *GameState) Relocate(id TileID, from, to Container) error {
	if from == to {
		return ErrInvalidMove.Detailf("source and destination are both %s", from)
	}
	src, err := s.tilesOf(from)
	if err != nil {
		return err
	}
	if _, err := s.tilesOf(to); err != nil {
		return err
	}
	idx := IndexOfTile(src, id)
	if idx < 0 {
		return ErrTileNotFound.Detailf("tile %d not in %s", id, from)
	}
	tile := src[idx]

	switch from.Kind {
	case ContainerHand:
		s.Hands[from.PlayerID] = RemoveTileAt(src, idx)
	case ContainerGroup:
		g, gi := s.Group(from.GroupID)
		g.Tiles = RemoveTileAt(g.Tiles, idx)
		if len(g.Tiles) == 0 {
			s.removeGroup(gi)
		}
	}

	switch to.Kind {
	case ContainerHand:
		s.Hands[to.PlayerID] = append(s.Hands[to.PlayerID], tile)
	case ContainerGroup:
		g, _ := s.Group(to.GroupID)
		g.Tiles = append(g.Tiles, tile)
	}
	return nil
}

// DrawTile 从摸牌堆头部摸一张牌到玩家手中
func (s *GameState) DrawTile(playerID int) (Tile, error) {
	if _, ok := s.Hands[playerID]; !ok {
		return Tile{}, ErrUnknownPlayer.Detailf("player %d", playerID)
	}
	if len(s.DrawPile) == 0 {
		return Tile{}, ErrPoolExhausted
	}
	tile := s.DrawPile[0]
	s.DrawPile = s.DrawPile[1:]
	s.Hands[playerID] = append(s.Hands[playerID], tile)
	return tile, nil
}

// TileCount 统计全部容器中的牌数
func (s *GameState) TileCount() int {
	n := len(s.DrawPile)
	for _, hand := range s.Hands {
		n += len(hand)
	}
	for _, g := range s.Groups {
		n += len(g.Tiles)
	}
	return n
}

// CheckIntegrity 校验 106 张牌不重不漏、桌面没有空牌组
func (s *GameState) CheckIntegrity() error {
	seen := make(map[TileID]bool, TotalTiles)
	add := func(where string, tiles []Tile) error {
		for _, t := range tiles {
			if seen[t.ID] {
				return ErrIntegrity.Detailf("duplicate tile %d in %s", t.ID, where)
			}
			seen[t.ID] = true
		}
		return nil
	}

	if err := add("draw pile", s.DrawPile); err != nil {
		return err
	}
	for pid, hand := range s.Hands {
		if err := add(fmt.Sprintf("hand(%d)", pid), hand); err != nil {
			return err
		}
	}
	for _, g := range s.Groups {
		if len(g.Tiles) == 0 {
			return ErrIntegrity.Detailf("empty group %d", g.ID)
		}
		if err := add(fmt.Sprintf("group(%d)", g.ID), g.Tiles); err != nil {
			return err
		}
	}
	if len(seen) != TotalTiles {
		return ErrIntegrity.Detailf("expected %d tiles, got %d", TotalTiles, len(seen))
	}
	for id := TileID(0); id < TotalTiles; id++ {
		if !seen[id] {
			return ErrIntegrity.Detailf("tile %d missing", id)
		}
	}
	return nil
}
