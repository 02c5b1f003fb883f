package classic

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.rummy/internal/game/rummy/core"
)

// 未洗牌时的 ID：第一副红 0-12、蓝 13-25、黄 26-38、绿 39-51，百搭 104、105
const (
	red2     core.TileID = 1
	red5     core.TileID = 4
	red10    core.TileID = 9
	blue2    core.TileID = 14
	blue3    core.TileID = 15
	yellow10 core.TileID = 35
	green10  core.TileID = 48
	joker    core.TileID = 104
)

// orderedDeck 不洗牌的牌池生成器
type orderedDeck struct {
	*DeckGenerator
}

func (orderedDeck) Shuffle([]core.Tile) {}

// newOrderedEngine 开一局不洗牌的牌局：玩家 0 拿 ID 0-13，玩家 1 拿 14-27
func newOrderedEngine(t *testing.T, setups ...core.PlayerSetup) *core.Engine {
	t.Helper()
	if len(setups) == 0 {
		setups = []core.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}}
	}
	e := core.NewEngine(orderedDeck{NewDeckGenerator(nil)}, NewMoveHandler(), NewSettler())
	require.NoError(t, e.Initialize(context.Background(), setups, core.DefaultGameConfig()))
	return e
}

// setHand 把玩家手牌换成指定的牌，其余牌放回摸牌堆
func setHand(t *testing.T, s *core.GameState, playerID int, ids ...core.TileID) {
	t.Helper()
	pool := append(core.CloneTiles(s.Hands[playerID]), s.DrawPile...)
	hand := make([]core.Tile, 0, len(ids))
	for _, id := range ids {
		idx := core.IndexOfTile(pool, id)
		require.GreaterOrEqual(t, idx, 0, "tile %d not available", id)
		hand = append(hand, pool[idx])
		pool = core.RemoveTileAt(pool, idx)
	}
	s.Hands[playerID] = hand
	s.DrawPile = pool
	require.NoError(t, s.CheckIntegrity())
}

func TestInitialize_TwoPlayerDeal(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()

	assert.Len(t, s.Hand(0), 14)
	assert.Len(t, s.Hand(1), 14)
	assert.Len(t, s.DrawPile, 78)
	assert.Equal(t, core.TileID(0), s.Hand(0)[0].ID)
	assert.Equal(t, core.TileID(14), s.Hand(1)[0].ID)
	assert.Equal(t, core.TileID(28), s.DrawPile[0].ID)
	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Equal(t, core.PhasePlaying, s.Phase)
	assert.NoError(t, s.CheckIntegrity())
}

func TestInitialize_Setup(t *testing.T) {
	ctx := context.Background()

	t.Run("玩家数量不足", func(t *testing.T) {
		e := NewEngine(nil)
		err := e.Initialize(ctx, []core.PlayerSetup{{Name: "solo"}}, core.DefaultGameConfig())
		assert.ErrorIs(t, err, core.ErrInvalidSetup)
		assert.Nil(t, e.GetState())
	})

	t.Run("玩家数量过多", func(t *testing.T) {
		e := NewEngine(nil)
		err := e.Initialize(ctx, make([]core.PlayerSetup, 5), core.DefaultGameConfig())
		assert.ErrorIs(t, err, core.ErrInvalidSetup)
	})

	t.Run("未知难度", func(t *testing.T) {
		e := NewEngine(nil)
		err := e.Initialize(ctx, []core.PlayerSetup{{}, {Computer: true, Difficulty: "expert"}}, core.DefaultGameConfig())
		assert.ErrorIs(t, err, core.ErrInvalidSetup)
	})

	t.Run("默认名称", func(t *testing.T) {
		e := NewEngine(rand.New(rand.NewSource(1)))
		err := e.Initialize(ctx, []core.PlayerSetup{{}, {Computer: true}, {Computer: true, Difficulty: core.DifficultyHard}}, core.GameConfig{})
		require.NoError(t, err)

		players := e.GetState().Players
		assert.Equal(t, "Player1", players[0].Name)
		assert.Equal(t, "AI1", players[1].Name)
		assert.Equal(t, core.DifficultyMedium, players[1].Difficulty)
		assert.Equal(t, "AI2", players[2].Name)
		assert.Equal(t, core.DifficultyHard, players[2].Difficulty)
		assert.Len(t, e.GetState().DrawPile, core.TotalTiles-3*14)
	})
}

func TestHandleMove_NotStarted(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.HandleMove(context.Background(), core.DrawMove(0))
	assert.ErrorIs(t, err, core.ErrRoundNotStarted)
}

func TestHandleMove_NotYourTurn(t *testing.T) {
	e := newOrderedEngine(t)

	_, err := e.HandleMove(context.Background(), core.DrawMove(1))
	assert.ErrorIs(t, err, core.ErrNotYourTurn)
	assert.Len(t, e.GetState().Hand(1), 14)
	assert.Equal(t, 0, e.GetState().CurrentPlayer)

	_, err = e.HandleMove(context.Background(), core.DrawMove(9))
	assert.ErrorIs(t, err, core.ErrUnknownPlayer)
}

func TestHandleMove_DrawEndsTurn(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()

	outcome, err := e.HandleMove(context.Background(), core.DrawMove(0))
	require.NoError(t, err)

	require.NotNil(t, outcome.Drawn)
	assert.Equal(t, core.TileID(28), outcome.Drawn.ID)
	assert.True(t, outcome.TurnEnded)
	assert.Len(t, s.Hand(0), 15)
	assert.Len(t, s.DrawPile, 77)
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.Equal(t, int64(1), s.TurnSeq)
	require.Len(t, s.History, 1)
	assert.Equal(t, core.MoveDraw, s.History[0].Move.Type)
}

func TestHandleMove_PoolExhausted(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()

	// 摸牌堆整体挪到桌面，保持牌数守恒
	g := s.NewGroup(1)
	g.Tiles = s.DrawPile
	s.DrawPile = nil
	require.NoError(t, s.CheckIntegrity())

	_, err := e.HandleMove(context.Background(), core.DrawMove(0))
	assert.ErrorIs(t, err, core.ErrPoolExhausted)
	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Len(t, s.Hand(0), 14)
	assert.Empty(t, s.History)
}

func TestHandleMove_SingleTileBelowThreshold(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	before := core.CloneTiles(s.Hand(0))

	_, err := e.HandleMove(context.Background(), core.PlaceMove(0, red5))
	assert.ErrorIs(t, err, core.ErrMeldBelowThreshold)

	assert.Equal(t, before, s.Hand(0))
	assert.Empty(t, s.Groups)
	assert.False(t, s.Players[0].HasInitialMeld)
	assert.Equal(t, 0, s.CurrentPlayer)
}

func TestHandleMove_JokerCountsZeroForMeld(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	setHand(t, s, 0, red10, yellow10, joker, red5)

	_, err := e.HandleMove(context.Background(), core.PlaceMove(0, red10, yellow10, joker))
	assert.ErrorIs(t, err, core.ErrMeldBelowThreshold)
	assert.Len(t, s.Hand(0), 4)
}

func TestHandleMove_InitialMeldAccepted(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	setHand(t, s, 0, red10, yellow10, green10, red5, red2)

	outcome, err := e.HandleMove(context.Background(), core.PlaceMove(0, red10, yellow10, green10))
	require.NoError(t, err)

	assert.True(t, outcome.InitialMeld)
	assert.False(t, outcome.TurnEnded)
	assert.True(t, s.Players[0].HasInitialMeld)
	assert.Len(t, s.Hand(0), 2)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, outcome.GroupID, s.Groups[0].ID)
	assert.Equal(t, 0, s.Groups[0].OwnerID)
	assert.Equal(t, []core.TileID{red10, yellow10, green10}, core.TileIDs(s.Groups[0].Tiles))

	// 首次出牌完成后，单张低分牌也可以出
	outcome, err = e.HandleMove(context.Background(), core.AddMove(0, s.Groups[0].ID, red5))
	require.NoError(t, err)
	assert.False(t, outcome.InitialMeld)
	assert.True(t, s.Players[0].HasInitialMeld)
	assert.Len(t, s.Groups[0].Tiles, 4)

	_, err = e.HandleMove(context.Background(), core.EndTurnMove(0))
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.True(t, s.Players[0].HasInitialMeld)
	assert.NoError(t, s.CheckIntegrity())
}

func TestHandleMove_AddToGroup(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	setHand(t, s, 0, red10, yellow10, green10, red5, red2)
	ctx := context.Background()

	_, err := e.HandleMove(ctx, core.AddMove(0, 99, red5))
	assert.ErrorIs(t, err, core.ErrGroupNotFound)

	placed, err := e.HandleMove(ctx, core.PlaceMove(0, red10, yellow10, green10))
	require.NoError(t, err)
	second, err := e.HandleMove(ctx, core.PlaceMove(0, red5))
	require.NoError(t, err)

	_, err = e.HandleMove(ctx, core.AddMove(0, placed.GroupID, red2, red2))
	assert.ErrorIs(t, err, core.ErrInvalidMove)

	_, err = e.HandleMove(ctx, core.AddMove(0, placed.GroupID, red5))
	assert.ErrorIs(t, err, core.ErrTileNotFound)

	_, err = e.HandleMove(ctx, core.AddMove(0, placed.GroupID, red10).FromGroup(placed.GroupID))
	assert.ErrorIs(t, err, core.ErrInvalidMove)

	// 桌面之间移动，来源牌组被取空后删除
	_, err = e.HandleMove(ctx, core.AddMove(0, placed.GroupID, red5).FromGroup(second.GroupID))
	require.NoError(t, err)
	require.Len(t, s.Groups, 1)
	assert.Len(t, s.Groups[0].Tiles, 4)
	assert.Len(t, s.Hand(0), 1)
	assert.NoError(t, s.CheckIntegrity())
}

func TestHandleMove_TableRearrangeSkipsThreshold(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	setHand(t, s, 0, red10, yellow10, green10, red5, red2)
	ctx := context.Background()

	placed, err := e.HandleMove(ctx, core.PlaceMove(0, red10, yellow10, green10))
	require.NoError(t, err)
	_, err = e.HandleMove(ctx, core.EndTurnMove(0))
	require.NoError(t, err)

	// 玩家 1 尚未首次出牌，但可以拆分桌面牌组
	split, err := e.HandleMove(ctx, core.PlaceMove(1, green10).FromGroup(placed.GroupID))
	require.NoError(t, err)
	assert.False(t, split.InitialMeld)
	assert.False(t, s.Players[1].HasInitialMeld)
	assert.Len(t, s.Groups, 2)
	assert.Len(t, s.Hand(1), 14)
	assert.NoError(t, s.CheckIntegrity())
}

func TestHandleMove_LastTileEndsRound(t *testing.T) {
	e := newOrderedEngine(t)
	s := e.GetState()
	setHand(t, s, 0, red10, yellow10, green10)
	setHand(t, s, 1, blue2, blue3, joker)

	outcome, err := e.HandleMove(context.Background(), core.PlaceMove(0, red10, yellow10, green10))
	require.NoError(t, err)

	assert.True(t, outcome.RoundEnded)
	assert.True(t, e.IsGameOver())
	assert.Equal(t, core.PhaseEnded, s.Phase)
	assert.Equal(t, 0, s.WinnerID)

	settlement := e.GetSettlement()
	require.NotNil(t, settlement)
	assert.Equal(t, 0, settlement.WinnerID)
	assert.Equal(t, []core.PlayerResult{
		{PlayerID: 0, Name: "Alice", TilesRemaining: 0, Penalty: 0},
		{PlayerID: 1, Name: "Bob", TilesRemaining: 3, Penalty: 2 + 3 + 30},
	}, settlement.Results)

	_, err = e.HandleMove(context.Background(), core.DrawMove(0))
	assert.ErrorIs(t, err, core.ErrRoundOver)
	_, err = e.HandleMove(context.Background(), core.DrawMove(1))
	assert.ErrorIs(t, err, core.ErrRoundOver)
}

func TestComputerTurn(t *testing.T) {
	e := newOrderedEngine(t, core.PlayerSetup{Name: "Alice"}, core.PlayerSetup{Computer: true})
	s := e.GetState()
	ctx := context.Background()

	assert.ErrorIs(t, e.FinishTurn(ctx, 1), core.ErrNotYourTurn)
	assert.ErrorIs(t, e.FinishTurn(ctx, 0), core.ErrInvalidMove)

	_, err := e.HandleMove(ctx, core.EndTurnMove(0))
	require.NoError(t, err)
	assert.Equal(t, []core.MoveType{core.MoveDraw, core.MovePlaceOnTable}, e.AvailableMoves(1))

	_, err = e.HandleMove(ctx, core.EndTurnMove(1))
	assert.ErrorIs(t, err, core.ErrComputerControlled)
	assert.Equal(t, 1, s.CurrentPlayer)

	require.NoError(t, e.FinishTurn(ctx, 1))
	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Equal(t, int64(2), s.TurnSeq)
	assert.Len(t, s.History, 2)
}

// TestRandomPlayKeepsInvariants 随机动作下牌数守恒、首次出牌标记不回退
func TestRandomPlayKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	e := NewEngine(rand.New(rand.NewSource(99)))
	require.NoError(t, e.Initialize(context.Background(),
		[]core.PlayerSetup{{}, {}, {}}, core.DefaultGameConfig()))
	s := e.GetState()
	ctx := context.Background()
	melded := map[int]bool{}

	for step := 0; step < 500 && !e.IsGameOver(); step++ {
		p := s.GetCurrentPlayer().ID
		hand := s.Hand(p)

		var move core.Move
		switch r := rng.Intn(10); {
		case r < 3:
			move = core.DrawMove(p)
		case r < 6 && len(hand) > 0:
			n := 1 + rng.Intn(min(4, len(hand)))
			perm := rng.Perm(len(hand))[:n]
			ids := make([]core.TileID, n)
			for i, idx := range perm {
				ids[i] = hand[idx].ID
			}
			move = core.PlaceMove(p, ids...)
		case r < 8 && len(s.Groups) > 0 && len(hand) > 0:
			g := s.Groups[rng.Intn(len(s.Groups))]
			move = core.AddMove(p, g.ID, hand[rng.Intn(len(hand))].ID)
		case r < 9 && len(s.Groups) > 1:
			from := s.Groups[0]
			to := s.Groups[len(s.Groups)-1]
			move = core.AddMove(p, to.ID, from.Tiles[0].ID).FromGroup(from.ID)
		default:
			move = core.EndTurnMove(p)
		}

		_, _ = e.HandleMove(ctx, move)

		require.NoError(t, s.CheckIntegrity(), "step %d", step)
		for _, g := range s.Groups {
			require.NotEmpty(t, g.Tiles)
		}
		for _, player := range s.Players {
			if melded[player.ID] {
				require.True(t, player.HasInitialMeld, "step %d: flag reset for %d", step, player.ID)
			}
			melded[player.ID] = player.HasInitialMeld
		}
	}
}
