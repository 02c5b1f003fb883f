package classic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.rummy/internal/game/rummy/core"
)

func TestBuildPool_Composition(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		gen := NewDeckGenerator(rand.New(rand.NewSource(seed)))
		pool := gen.BuildPool()
		require.Len(t, pool, core.TotalTiles)

		type key struct {
			color core.Color
			value int
		}
		counts := map[key]int{}
		ids := map[core.TileID]bool{}
		jokers := 0
		for _, tile := range pool {
			assert.False(t, ids[tile.ID], "seed %d: duplicate id %d", seed, tile.ID)
			ids[tile.ID] = true
			if tile.Joker {
				jokers++
				continue
			}
			counts[key{tile.Color, tile.Value}]++
		}

		assert.Equal(t, core.JokerCount, jokers)
		assert.Len(t, counts, len(core.Colors)*core.MaxValue)
		for k, n := range counts {
			assert.Equal(t, 2, n, "seed %d: %s-%d", seed, k.color, k.value)
		}
	}
}

func TestGenerateDeck_SequentialIDs(t *testing.T) {
	deck := NewDeckGenerator(nil).GenerateDeck()
	for i, tile := range deck {
		assert.Equal(t, core.TileID(i), tile.ID)
	}
	assert.True(t, deck[104].Joker)
	assert.True(t, deck[105].Joker)
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	a := NewDeckGenerator(rand.New(rand.NewSource(7))).BuildPool()
	b := NewDeckGenerator(rand.New(rand.NewSource(7))).BuildPool()
	c := NewDeckGenerator(rand.New(rand.NewSource(8))).BuildPool()

	assert.Equal(t, core.TileIDs(a), core.TileIDs(b))
	assert.NotEqual(t, core.TileIDs(a), core.TileIDs(c))
}

func TestDeal_TwoPlayersFromFront(t *testing.T) {
	gen := NewDeckGenerator(rand.New(rand.NewSource(42)))
	pool := gen.BuildPool()

	hands, remaining := gen.Deal(pool, 2, 14)

	require.Len(t, hands, 2)
	assert.Equal(t, core.TileIDs(pool[:14]), core.TileIDs(hands[0]))
	assert.Equal(t, core.TileIDs(pool[14:28]), core.TileIDs(hands[1]))
	assert.Equal(t, core.TileIDs(pool[28:]), core.TileIDs(remaining))
	assert.Len(t, remaining, 78)

	for _, tile := range hands[0] {
		assert.False(t, core.ContainsTile(hands[1], tile.ID))
	}

	// 手牌与摸牌堆互不共享底层数组
	hands[0] = append(hands[0], remaining[0])
	assert.Equal(t, core.TileIDs(pool[14:28]), core.TileIDs(hands[1]))
}
