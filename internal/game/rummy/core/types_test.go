package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileValues(t *testing.T) {
	joker := Tile{ID: 104, Color: ColorJoker, Joker: true}
	ten := Tile{ID: 9, Color: ColorRed, Value: 10}

	assert.Equal(t, 0, joker.MeldValue())
	assert.Equal(t, JokerPenalty, joker.Penalty())
	assert.Equal(t, 10, ten.MeldValue())
	assert.Equal(t, 10, ten.Penalty())

	assert.Equal(t, 20, MeldValue([]Tile{ten, joker, ten}))
	assert.Equal(t, 50, PenaltyValue([]Tile{ten, joker, ten}))
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"", DifficultyMedium, false},
		{"easy", DifficultyEasy, false},
		{"Hard", DifficultyHard, false},
		{" medium ", DifficultyMedium, false},
		{"expert", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSetup)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(Tile{ID: 1, Color: ColorYellow, Value: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"color":"yellow","value":7,"joker":false}`, string(data))

	var tile Tile
	require.NoError(t, json.Unmarshal(data, &tile))
	assert.Equal(t, ColorYellow, tile.Color)

	assert.Error(t, json.Unmarshal([]byte(`{"color":"purple"}`), &tile))
}

func TestGameErrorIs(t *testing.T) {
	err := ErrTileNotFound.Detailf("tile %d", 3)
	wrapped := fmt.Errorf("动作验证失败: %w", err)

	assert.True(t, errors.Is(wrapped, ErrTileNotFound))
	assert.False(t, errors.Is(wrapped, ErrNotYourTurn))
	assert.Equal(t, "[TILE_NOT_FOUND] tile not found in source", ErrTileNotFound.Error())

	var gameErr *GameError
	require.True(t, errors.As(wrapped, &gameErr))
	assert.Equal(t, CodeTileNotFound, gameErr.Code)
}

func TestMoveSource(t *testing.T) {
	m := PlaceMove(1, 4, 5)
	assert.Equal(t, HandOf(1), m.Source())

	m.From = HandOf(0)
	assert.Equal(t, HandOf(1), m.Source(), "hand source is always the mover")

	m = AddMove(1, 3, 4).FromGroup(2)
	assert.Equal(t, GroupOf(2), m.Source())
}

func TestTileHelpers(t *testing.T) {
	tiles := []Tile{
		{ID: 0, Color: ColorBlue, Value: 5},
		{ID: 1, Color: ColorBlue, Value: 6},
		{ID: 2, Color: ColorBlue, Value: 7},
		{ID: 3, Color: ColorRed, Value: 5},
		{ID: 4, Color: ColorJoker, Joker: true},
	}

	assert.True(t, IsRun(tiles[:3]))
	assert.False(t, IsRun(tiles[1:4]))
	assert.True(t, IsSameValueSet([]Tile{tiles[0], tiles[3], {ID: 9, Color: ColorGreen, Value: 5}}))
	assert.False(t, IsSameValueSet([]Tile{tiles[0], tiles[3], tiles[0]}))

	byValue := GroupByValue(tiles)
	assert.Len(t, byValue[5], 2)
	assert.NotContains(t, byValue, 0)

	sorted := CloneTiles(tiles)
	sorted[0], sorted[4] = sorted[4], sorted[0]
	SortTiles(sorted)
	assert.True(t, sorted[len(sorted)-1].Joker)
	assert.Equal(t, TileID(3), sorted[0].ID)
}
