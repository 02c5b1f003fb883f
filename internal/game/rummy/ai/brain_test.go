package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.rummy/internal/game/rummy/core"
)

func tile(id int, color core.Color, value int) core.Tile {
	return core.Tile{ID: core.TileID(id), Color: color, Value: value}
}

func jokerTile(id int) core.Tile {
	return core.Tile{ID: core.TileID(id), Color: core.ColorJoker, Joker: true}
}

// stateWithHand 只包含一位电脑玩家手牌的状态，策略只读不改
func stateWithHand(hasMeld bool, hand ...core.Tile) *core.GameState {
	return &core.GameState{
		Players:  []*core.Player{{ID: 0, Name: "AI1", Computer: true, HasInitialMeld: hasMeld}},
		Hands:    map[int][]core.Tile{0: hand},
		DrawPile: []core.Tile{tile(100, core.ColorYellow, 13)},
		Config:   core.DefaultGameConfig(),
	}
}

func TestFindValueSets(t *testing.T) {
	hand := []core.Tile{
		tile(1, core.ColorRed, 9),
		tile(2, core.ColorBlue, 4),
		tile(3, core.ColorBlue, 9),
		jokerTile(104),
		tile(4, core.ColorGreen, 4),
		tile(5, core.ColorYellow, 9),
		tile(6, core.ColorRed, 4),
		tile(7, core.ColorGreen, 9),
		jokerTile(105),
	}

	sets := FindValueSets(hand)

	require.Len(t, sets, 2)
	assert.Equal(t, []core.TileID{2, 4, 6}, core.TileIDs(sets[0]))
	assert.Equal(t, []core.TileID{1, 3, 5}, core.TileIDs(sets[1]))
}

func TestFindValueSets_JokersIgnored(t *testing.T) {
	hand := []core.Tile{tile(1, core.ColorRed, 9), jokerTile(104), jokerTile(105), tile(2, core.ColorBlue, 9)}
	assert.Empty(t, FindValueSets(hand))
}

func TestFindRuns(t *testing.T) {
	hand := []core.Tile{
		tile(1, core.ColorRed, 3),
		tile(2, core.ColorRed, 5),
		tile(3, core.ColorRed, 4),
		tile(4, core.ColorRed, 4),
		tile(5, core.ColorBlue, 11),
		tile(6, core.ColorBlue, 12),
		tile(7, core.ColorRed, 9),
		tile(8, core.ColorBlue, 13),
		tile(9, core.ColorGreen, 1),
		tile(10, core.ColorGreen, 2),
	}

	runs := FindRuns(hand)

	require.Len(t, runs, 2)
	assert.Equal(t, []core.TileID{1, 3, 2}, core.TileIDs(runs[0]))
	assert.True(t, core.IsRun(runs[0]))
	assert.Equal(t, []core.TileID{5, 6, 8}, core.TileIDs(runs[1]))
}

func TestNewBrain(t *testing.T) {
	for _, d := range []core.Difficulty{core.DifficultyEasy, core.DifficultyMedium} {
		b, err := NewBrain(d, nil, 0)
		require.NoError(t, err)
		assert.IsType(t, &BasicBrain{}, b)
		assert.Equal(t, DefaultPlayChance, b.(*BasicBrain).playChance)
	}

	b, err := NewBrain(core.DifficultyHard, nil, 0.5)
	require.NoError(t, err)
	assert.IsType(t, &HardBrain{}, b)

	_, err = NewBrain("expert", nil, 0.5)
	assert.ErrorIs(t, err, core.ErrInvalidSetup)
}

func TestBasicBrain_DrawsWithoutCandidates(t *testing.T) {
	b, _ := NewBrain(core.DifficultyMedium, rand.New(rand.NewSource(1)), 1)
	state := stateWithHand(false, tile(1, core.ColorRed, 1), tile(2, core.ColorRed, 2))

	move := b.ChooseMove(state, 0)

	assert.Equal(t, core.MoveDraw, move.Type)
	assert.Equal(t, 0, move.PlayerID)
}

func TestBasicBrain_PlaysCandidate(t *testing.T) {
	b, _ := NewBrain(core.DifficultyEasy, rand.New(rand.NewSource(1)), 1)
	state := stateWithHand(false,
		tile(1, core.ColorRed, 10), tile(2, core.ColorBlue, 10), tile(3, core.ColorGreen, 10), tile(4, core.ColorRed, 2))

	move := b.ChooseMove(state, 0)

	assert.Equal(t, core.MovePlaceOnTable, move.Type)
	assert.Equal(t, []core.TileID{1, 2, 3}, move.TileIDs)
	assert.Equal(t, core.HandOf(0), move.Source())
}

func TestBasicBrain_PlayChance(t *testing.T) {
	b, _ := NewBrain(core.DifficultyMedium, rand.New(rand.NewSource(3)), DefaultPlayChance)
	state := stateWithHand(false,
		tile(1, core.ColorRed, 10), tile(2, core.ColorBlue, 10), tile(3, core.ColorGreen, 10))

	plays := 0
	const rounds = 2000
	for i := 0; i < rounds; i++ {
		if b.ChooseMove(state, 0).Type == core.MovePlaceOnTable {
			plays++
		}
	}

	ratio := float64(plays) / rounds
	assert.InDelta(t, DefaultPlayChance, ratio, 0.05)
}

func TestBasicBrain_EmptyPoolPlaysHighestSet(t *testing.T) {
	b, _ := NewBrain(core.DifficultyMedium, rand.New(rand.NewSource(3)), 0.01)
	state := stateWithHand(false,
		tile(1, core.ColorRed, 2), tile(2, core.ColorBlue, 2), tile(3, core.ColorGreen, 2),
		tile(4, core.ColorRed, 12), tile(5, core.ColorBlue, 12), tile(6, core.ColorGreen, 12))
	state.DrawPile = nil

	for i := 0; i < 20; i++ {
		move := b.ChooseMove(state, 0)
		require.Equal(t, core.MovePlaceOnTable, move.Type)
		assert.Equal(t, []core.TileID{4, 5, 6}, move.TileIDs)
	}
}

func TestHardBrain_PrefersLongerCandidate(t *testing.T) {
	b, _ := NewBrain(core.DifficultyHard, rand.New(rand.NewSource(1)), 0)
	state := stateWithHand(true,
		tile(1, core.ColorRed, 2), tile(2, core.ColorBlue, 2), tile(3, core.ColorGreen, 2),
		tile(4, core.ColorYellow, 5), tile(5, core.ColorYellow, 6), tile(6, core.ColorYellow, 7), tile(7, core.ColorYellow, 8))

	move := b.ChooseMove(state, 0)

	assert.Equal(t, core.MovePlaceOnTable, move.Type)
	assert.Equal(t, []core.TileID{4, 5, 6, 7}, move.TileIDs)
}

func TestHardBrain_RespectsThresholdBeforeMeld(t *testing.T) {
	b, _ := NewBrain(core.DifficultyHard, rand.New(rand.NewSource(1)), 0)
	hand := []core.Tile{
		tile(1, core.ColorRed, 2), tile(2, core.ColorBlue, 2), tile(3, core.ColorGreen, 2),
		tile(4, core.ColorYellow, 1), tile(5, core.ColorYellow, 2), tile(6, core.ColorYellow, 3),
	}

	move := b.ChooseMove(stateWithHand(false, hand...), 0)
	assert.Equal(t, core.MoveDraw, move.Type)

	move = b.ChooseMove(stateWithHand(false, append(hand,
		tile(7, core.ColorRed, 11), tile(8, core.ColorBlue, 11), tile(9, core.ColorGreen, 11))...), 0)
	assert.Equal(t, core.MovePlaceOnTable, move.Type)
	assert.Equal(t, []core.TileID{7, 8, 9}, move.TileIDs)
}
