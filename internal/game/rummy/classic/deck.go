package classic

import (
	"math/rand"
	"time"

	"sudooom.rummy/internal/game/rummy/core"
)

// DeckGenerator 牌池生成器 (106张: 4色 × 1-13 × 2 + 2张百搭)
type DeckGenerator struct {
	rand *rand.Rand
}

// NewDeckGenerator 创建牌池生成器，rng 为 nil 时使用时间种子
func NewDeckGenerator(rng *rand.Rand) *DeckGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DeckGenerator{rand: rng}
}

// GenerateDeck 按顺序生成牌池，ID 从 0 开始连续分配
func (d *DeckGenerator) GenerateDeck() []core.Tile {
	tiles := make([]core.Tile, 0, core.TotalTiles)
	id := core.TileID(0)

	for copyIdx := 0; copyIdx < core.CopiesPerTile; copyIdx++ {
		for _, color := range core.Colors {
			for value := core.MinValue; value <= core.MaxValue; value++ {
				tiles = append(tiles, core.Tile{ID: id, Color: color, Value: value})
				id++
			}
		}
	}

	for i := 0; i < core.JokerCount; i++ {
		tiles = append(tiles, core.Tile{ID: id, Color: core.ColorJoker, Joker: true})
		id++
	}

	return tiles
}

// Shuffle Fisher-Yates 洗牌：i 从末尾到 1，与 [0,i] 中随机位置交换
func (d *DeckGenerator) Shuffle(tiles []core.Tile) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := d.rand.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

// BuildPool 生成并洗好一副牌
func (d *DeckGenerator) BuildPool() []core.Tile {
	tiles := d.GenerateDeck()
	d.Shuffle(tiles)
	return tiles
}

// Deal 从牌池头部按座位顺序每人发 handSize 张，剩余为摸牌堆
func (d *DeckGenerator) Deal(tiles []core.Tile, playerCount int, handSize int) (hands map[int][]core.Tile, remaining []core.Tile) {
	hands = make(map[int][]core.Tile, playerCount)
	index := 0

	for i := 0; i < playerCount; i++ {
		hands[i] = core.CloneTiles(tiles[index : index+handSize])
		index += handSize
	}

	remaining = core.CloneTiles(tiles[index:])
	return hands, remaining
}
