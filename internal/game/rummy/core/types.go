package core

import (
	"fmt"
	"strings"
	"time"
)

// 牌池规格
const (
	MinValue      = 1   // 最小点数
	MaxValue      = 13  // 最大点数
	CopiesPerTile = 2   // 每种 (颜色, 点数) 的张数
	JokerCount    = 2   // 百搭牌张数
	TotalTiles    = 106 // 4 色 × 13 点 × 2 + 2 百搭
	JokerPenalty  = 30  // 百搭牌留在手中的罚分
)

// Color 牌的颜色
type Color int8

const (
	ColorRed Color = iota
	ColorBlue
	ColorYellow
	ColorGreen
	ColorJoker // 百搭牌没有真实颜色
)

// Colors 普通牌的四种颜色
var Colors = []Color{ColorRed, ColorBlue, ColorYellow, ColorGreen}

// String 返回颜色名称
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorJoker:
		return "joker"
	default:
		return "unknown"
	}
}

// MarshalText 以名称序列化颜色
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 从名称解析颜色
func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "red":
		*c = ColorRed
	case "blue":
		*c = ColorBlue
	case "yellow":
		*c = ColorYellow
	case "green":
		*c = ColorGreen
	case "joker":
		*c = ColorJoker
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// TileID 牌的唯一标识 (一局内唯一)
type TileID int

// Tile 牌，创建后不可变
type Tile struct {
	ID    TileID `json:"id"`
	Color Color  `json:"color"`
	Value int    `json:"value"` // 1-13，百搭牌为 0
	Joker bool   `json:"joker"`
}

// String 返回牌的字符串表示
func (t Tile) String() string {
	if t.Joker {
		return fmt.Sprintf("#%d:joker", t.ID)
	}
	return fmt.Sprintf("#%d:%s-%d", t.ID, t.Color, t.Value)
}

// MeldValue 计入首次出牌门槛的点数，百搭牌不计分
func (t Tile) MeldValue() int {
	if t.Joker {
		return 0
	}
	return t.Value
}

// Penalty 局终留在手中的罚分
func (t Tile) Penalty() int {
	if t.Joker {
		return JokerPenalty
	}
	return t.Value
}

// Difficulty 电脑玩家难度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty 解析难度，空字符串视为 medium
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", ErrInvalidSetup.Detailf("unknown difficulty %q", s)
	}
}

// PlayerSetup 开局时的玩家设置
type PlayerSetup struct {
	Name       string     `json:"name"`
	Computer   bool       `json:"isAI"`
	Difficulty Difficulty `json:"difficulty"`
}

// Player 玩家
type Player struct {
	ID             int        `json:"id"` // 座位号，从 0 开始
	Name           string     `json:"name"`
	Computer       bool       `json:"isAI"`
	Difficulty     Difficulty `json:"difficulty"`
	HasInitialMeld bool       `json:"hasInitialMeld"` // 一旦为 true，本局内不会再变回 false
}

// GroupID 桌面牌组标识
type GroupID int

// TableGroup 桌面上的一组牌，存在期间至少有一张牌
type TableGroup struct {
	ID      GroupID `json:"id"`
	OwnerID int     `json:"ownerId"` // 创建该牌组的玩家
	Tiles   []Tile  `json:"tiles"`
}

// ContainerKind 牌所在容器的类型
type ContainerKind int8

const (
	ContainerHand  ContainerKind = iota // 玩家手牌
	ContainerGroup                      // 桌面牌组
)

// MarshalText 以名称序列化容器类型
func (k ContainerKind) MarshalText() ([]byte, error) {
	if k == ContainerGroup {
		return []byte("group"), nil
	}
	return []byte("hand"), nil
}

// UnmarshalText 从名称解析容器类型
func (k *ContainerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hand", "":
		*k = ContainerHand
	case "group":
		*k = ContainerGroup
	default:
		return fmt.Errorf("unknown container kind %q", text)
	}
	return nil
}

// Container 牌的来源或去向
type Container struct {
	Kind     ContainerKind `json:"kind"`
	PlayerID int           `json:"playerId,omitempty"`
	GroupID  GroupID       `json:"groupId,omitempty"`
}

// HandOf 返回指定玩家的手牌容器
func HandOf(playerID int) Container {
	return Container{Kind: ContainerHand, PlayerID: playerID}
}

// GroupOf 返回指定桌面牌组容器
func GroupOf(id GroupID) Container {
	return Container{Kind: ContainerGroup, GroupID: id}
}

// String 返回容器的字符串表示
func (c Container) String() string {
	if c.Kind == ContainerGroup {
		return fmt.Sprintf("group(%d)", c.GroupID)
	}
	return fmt.Sprintf("hand(%d)", c.PlayerID)
}

// MoveType 动作类型
type MoveType int8

const (
	MoveDraw         MoveType = iota // 摸牌
	MovePlaceOnTable                 // 放到桌面，新建牌组
	MoveAddToGroup                   // 加入已有牌组
	MoveEndTurn                      // 结束回合
)

// String 返回动作类型的字符串表示
func (m MoveType) String() string {
	switch m {
	case MoveDraw:
		return "draw"
	case MovePlaceOnTable:
		return "place_on_table"
	case MoveAddToGroup:
		return "add_to_group"
	case MoveEndTurn:
		return "end_turn"
	default:
		return "unknown"
	}
}

// MarshalText 以名称序列化动作类型
func (m MoveType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 从名称解析动作类型
func (m *MoveType) UnmarshalText(text []byte) error {
	for _, t := range []MoveType{MoveDraw, MovePlaceOnTable, MoveAddToGroup, MoveEndTurn} {
		if t.String() == string(text) {
			*m = t
			return nil
		}
	}
	return fmt.Errorf("unknown move type %q", text)
}

// Move 玩家动作，人类玩家和电脑玩家统一使用
type Move struct {
	Type     MoveType  `json:"type"`
	PlayerID int       `json:"playerId"`
	TileIDs  []TileID  `json:"tileIds,omitempty"`
	From     Container `json:"from"`              // 来源容器，手牌来源时 PlayerID 以 Move.PlayerID 为准
	GroupID  GroupID   `json:"groupId,omitempty"` // AddToGroup 的目标牌组
}

// DrawMove 摸牌
func DrawMove(playerID int) Move {
	return Move{Type: MoveDraw, PlayerID: playerID, From: HandOf(playerID)}
}

// PlaceMove 从手牌中取出若干张牌新建牌组
func PlaceMove(playerID int, tileIDs ...TileID) Move {
	return Move{Type: MovePlaceOnTable, PlayerID: playerID, TileIDs: tileIDs, From: HandOf(playerID)}
}

// AddMove 从手牌中取出若干张牌加入已有牌组
func AddMove(playerID int, groupID GroupID, tileIDs ...TileID) Move {
	return Move{Type: MoveAddToGroup, PlayerID: playerID, TileIDs: tileIDs, From: HandOf(playerID), GroupID: groupID}
}

// EndTurnMove 结束回合
func EndTurnMove(playerID int) Move {
	return Move{Type: MoveEndTurn, PlayerID: playerID, From: HandOf(playerID)}
}

// FromGroup 改为从桌面牌组取牌
func (m Move) FromGroup(id GroupID) Move {
	m.From = GroupOf(id)
	return m
}

// Source 返回实际来源容器，手牌来源总是行动者自己的手牌
func (m Move) Source() Container {
	if m.From.Kind == ContainerGroup {
		return m.From
	}
	return HandOf(m.PlayerID)
}

// Phase 一局的阶段
type Phase int8

const (
	PhasePlaying Phase = iota // 等待当前玩家行动
	PhaseEnded                // 已有玩家出完牌，终态
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText 以名称序列化阶段
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText 从名称解析阶段
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*p = PhasePlaying
	case "ended":
		*p = PhaseEnded
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// MoveOutcome 动作执行结果
type MoveOutcome struct {
	Move        Move    `json:"move"`
	GroupID     GroupID `json:"groupId,omitempty"` // 新建或加入的牌组
	Drawn       *Tile   `json:"drawn,omitempty"`   // 摸到的牌
	InitialMeld bool    `json:"initialMeld"`       // 本次动作完成了首次出牌
	TurnEnded   bool    `json:"turnEnded"`
	RoundEnded  bool    `json:"roundEnded"`
}

// ActionRecord 回合历史记录
type ActionRecord struct {
	TurnSeq   int64     `json:"turnSeq"`
	Move      Move      `json:"move"`
	GroupID   GroupID   `json:"groupId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PlayerResult 单个玩家的结算
type PlayerResult struct {
	PlayerID       int    `json:"playerId"`
	Name           string `json:"name"`
	TilesRemaining int    `json:"tilesRemaining"`
	Penalty        int    `json:"penalty"`
}

// Settlement 结算结果
type Settlement struct {
	WinnerID int            `json:"winnerId"`
	Results  []PlayerResult `json:"results"` // 按座位顺序
}

// GameConfig 规则配置
type GameConfig struct {
	MinPlayers           int `json:"minPlayers"`
	MaxPlayers           int `json:"maxPlayers"`
	HandSize             int `json:"handSize"`
	InitialMeldThreshold int `json:"initialMeldThreshold"`
}

// DefaultGameConfig 默认规则：2-4 人，每人 14 张，首次出牌至少 30 点
func DefaultGameConfig() GameConfig {
	return GameConfig{
		MinPlayers:           2,
		MaxPlayers:           4,
		HandSize:             14,
		InitialMeldThreshold: 30,
	}
}

// withDefaults 补全未设置的字段
func (c GameConfig) withDefaults() GameConfig {
	def := DefaultGameConfig()
	if c.MinPlayers <= 0 {
		c.MinPlayers = def.MinPlayers
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = def.MaxPlayers
	}
	if c.HandSize <= 0 {
		c.HandSize = def.HandSize
	}
	if c.InitialMeldThreshold <= 0 {
		c.InitialMeldThreshold = def.InitialMeldThreshold
	}
	return c
}
