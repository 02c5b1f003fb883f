package rummy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"sudooom.rummy/internal/game/rummy/ai"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/internal/task"
)

// Table 一张牌桌，对外提供开局、出牌、重开等命令
//
// 所有命令在 mu 内串行执行；电脑玩家的回合通过调度器延迟执行，
// 执行时若牌局或回合已变化则丢弃。
type Table struct {
	mu     sync.Mutex
	id     string
	svc    *Service
	logger *slog.Logger

	roundID string
	setups  []core.PlayerSetup
	engine  *SafeEngine
	brains  map[int]ai.Brain
	rand    *rand.Rand
	notice  string

	pendingTask string // 已安排但尚未执行的电脑回合任务
	idleTurns   int    // 连续没有任何变化的电脑回合数
}

// ID 牌桌ID
func (t *Table) ID() string {
	return t.id
}

// StartRound 按座位顺序开一局，旧局直接丢弃
func (t *Table) StartRound(ctx context.Context, setups []core.PlayerSetup) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startLocked(ctx, setups)
}

// Restart 以相同的玩家设置重新开局
func (t *Table) Restart(ctx context.Context) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.setups == nil {
		return nil, core.ErrRoundNotStarted
	}
	return t.startLocked(ctx, t.setups)
}

func (t *Table) startLocked(ctx context.Context, setups []core.PlayerSetup) (*Snapshot, error) {
	rng := t.svc.newRand()
	engine := t.svc.CreateEngine(rng)
	if err := engine.Initialize(ctx, setups, t.svc.cfg.Game); err != nil {
		return nil, err
	}

	brains := make(map[int]ai.Brain)
	var brainErr error
	engine.View(func(state *core.GameState) {
		for _, p := range state.Players {
			if !p.Computer {
				continue
			}
			brain, err := ai.NewBrain(p.Difficulty, rng, t.svc.cfg.PlayChance)
			if err != nil {
				brainErr = err
				return
			}
			brains[p.ID] = brain
		}
	})
	if brainErr != nil {
		return nil, brainErr
	}

	t.cancelPending()
	t.setups = append([]core.PlayerSetup(nil), setups...)
	t.engine = engine
	t.brains = brains
	t.rand = rng
	t.roundID = uuid.NewString()
	t.notice = ""
	t.idleTurns = 0

	t.logger.Info("开局",
		"roundId", t.roundID,
		"playerCount", len(setups))

	t.emit(ctx, &Event{Type: EventRoundStarted, PlayerID: -1})
	return t.afterChange(ctx), nil
}

// Draw 当前玩家摸牌，成功后自动轮到下一位
func (t *Table) Draw(ctx context.Context, playerID int) (*Snapshot, error) {
	return t.submit(ctx, core.DrawMove(playerID))
}

// PlaceOnTable 把若干张牌放到桌面新牌组，from 为空值时从手牌取
func (t *Table) PlaceOnTable(ctx context.Context, playerID int, tileIDs []core.TileID, from core.Container) (*Snapshot, error) {
	move := core.PlaceMove(playerID, tileIDs...)
	if from.Kind == core.ContainerGroup {
		move = move.FromGroup(from.GroupID)
	}
	return t.submit(ctx, move)
}

// AddToGroup 把若干张牌加入已有牌组，from 为空值时从手牌取
func (t *Table) AddToGroup(ctx context.Context, playerID int, groupID core.GroupID, tileIDs []core.TileID, from core.Container) (*Snapshot, error) {
	move := core.AddMove(playerID, groupID, tileIDs...)
	if from.Kind == core.ContainerGroup {
		move = move.FromGroup(from.GroupID)
	}
	return t.submit(ctx, move)
}

// EndTurn 人类玩家结束回合
func (t *Table) EndTurn(ctx context.Context, playerID int) (*Snapshot, error) {
	return t.submit(ctx, core.EndTurnMove(playerID))
}

// Snapshot 当前状态副本，viewer 小于 0 时展示当前玩家手牌
func (t *Table) Snapshot(viewer int) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine == nil {
		return nil, core.ErrRoundNotStarted
	}
	return t.snapshotLocked(viewer), nil
}

// Close 关闭牌桌，之后到期的电脑回合全部忽略
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelPending()
	t.roundID = ""
	t.setups = nil
	t.engine = nil
	t.brains = nil
}

// submit 提交人类玩家的动作
func (t *Table) submit(ctx context.Context, move core.Move) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine == nil {
		return nil, core.ErrRoundNotStarted
	}
	if t.computerSeat(move.PlayerID) {
		return nil, core.ErrComputerControlled.Detailf("player %d", move.PlayerID)
	}

	outcome, err := t.engine.HandleMove(ctx, move)
	if err != nil {
		if errors.Is(err, core.ErrPoolExhausted) {
			t.notice = "pool exhausted"
			t.emit(ctx, &Event{Type: EventPoolExhausted, PlayerID: move.PlayerID, Notice: t.notice})
			t.publish(ctx, t.snapshotLocked(-1))
		}
		t.logger.Debug("动作被拒绝",
			"playerId", move.PlayerID,
			"moveType", move.Type.String(),
			"error", err)
		return nil, err
	}

	t.applied(ctx, outcome)
	return t.afterChange(ctx), nil
}

// runComputerTurn 执行电脑玩家的回合，过期任务直接忽略
func (t *Table) runComputerTurn(ctx context.Context, taskID, roundID string, turnSeq int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pendingTask == taskID {
		t.pendingTask = ""
	}

	if t.engine == nil || roundID != t.roundID {
		t.logger.Debug("忽略过期的电脑回合", "roundId", roundID)
		return nil
	}

	var move core.Move
	ready := false
	t.engine.View(func(state *core.GameState) {
		if state == nil || state.Phase != core.PhasePlaying || state.TurnSeq != turnSeq {
			return
		}
		player := state.GetCurrentPlayer()
		brain, ok := t.brains[player.ID]
		if !player.Computer || !ok {
			return
		}
		move = brain.ChooseMove(state, player.ID)
		ready = true
	})
	if !ready {
		t.logger.Debug("忽略过期的电脑回合", "turnSeq", turnSeq)
		return nil
	}

	playerID := move.PlayerID
	outcome, err := t.engine.HandleMove(ctx, move)
	if err != nil && move.Type != core.MoveDraw {
		t.logger.Debug("电脑出牌被拒绝，改为摸牌", "playerId", playerID, "error", err)
		outcome, err = t.engine.HandleMove(ctx, core.DrawMove(playerID))
	}

	if err != nil {
		if !errors.Is(err, core.ErrPoolExhausted) {
			return fmt.Errorf("电脑回合失败: %w", err)
		}
		t.notice = "pool exhausted"
		t.emit(ctx, &Event{Type: EventPoolExhausted, PlayerID: playerID, Notice: t.notice})
		t.idleTurns++
		if err := t.engine.FinishTurn(ctx, playerID); err != nil {
			return fmt.Errorf("结束电脑回合失败: %w", err)
		}
		t.afterChange(ctx)
		return nil
	}

	t.applied(ctx, outcome)
	if !outcome.TurnEnded && !outcome.RoundEnded {
		if err := t.engine.FinishTurn(ctx, playerID); err != nil {
			return fmt.Errorf("结束电脑回合失败: %w", err)
		}
	}
	t.afterChange(ctx)
	return nil
}

// applied 记录提示并推送动作事件
func (t *Table) applied(ctx context.Context, outcome *core.MoveOutcome) {
	move := outcome.Move
	t.idleTurns = 0
	name := t.playerName(move.PlayerID)

	switch move.Type {
	case core.MoveDraw:
		t.notice = fmt.Sprintf("%s drew a tile", name)
	case core.MovePlaceOnTable:
		t.notice = fmt.Sprintf("%s placed %d tile(s) as group %d", name, len(move.TileIDs), outcome.GroupID)
	case core.MoveAddToGroup:
		t.notice = fmt.Sprintf("%s added %d tile(s) to group %d", name, len(move.TileIDs), outcome.GroupID)
	case core.MoveEndTurn:
		t.notice = fmt.Sprintf("%s ended the turn", name)
	}

	t.emit(ctx, &Event{Type: EventMove, PlayerID: move.PlayerID, Move: &move, Notice: t.notice})

	if outcome.RoundEnded {
		t.notice = fmt.Sprintf("%s wins the round", name)
		t.emit(ctx, &Event{Type: EventRoundEnded, PlayerID: move.PlayerID, Notice: t.notice})
		t.logger.Info("本局结束", "roundId", t.roundID, "winner", name)
	}
}

// afterChange 推送状态，轮到电脑玩家时安排其回合
//
// 摸牌堆为空后所有电脑玩家连续一轮都没有动作时，手牌与策略输入不再变化，
// 牌桌停止安排回合，只能重开或关闭。
func (t *Table) afterChange(ctx context.Context) *Snapshot {
	snap := t.snapshotLocked(-1)

	if snap.Phase == core.PhasePlaying {
		if current, ok := snap.Player(snap.CurrentPlayer); ok && current.Computer {
			if t.idleTurns >= len(snap.Players) {
				t.notice = "no moves left"
				t.emit(ctx, &Event{Type: EventStalled, PlayerID: -1, Notice: t.notice})
				t.logger.Info("牌桌停滞", "roundId", t.roundID, "turnSeq", snap.TurnSeq)
			} else {
				t.scheduleComputerTurn(ctx, current, snap.TurnSeq)
			}
			snap.Notice = t.notice
		}
	}

	t.publish(ctx, snap)
	return snap
}

// scheduleComputerTurn 延迟执行电脑玩家的回合
func (t *Table) scheduleComputerTurn(ctx context.Context, player PlayerView, turnSeq int64) {
	roundID := t.roundID
	delay := t.thinkDelay()

	fn := func(ctx context.Context, job *task.Task) error {
		return t.runComputerTurn(ctx, job.ID, roundID, turnSeq)
	}
	job := task.NewTask(uuid.NewString(), t.id, delay, fn).
		WithVersion(turnSeq).
		WithMetadata("roundId", roundID).
		WithMetadata("playerId", player.ID)

	if err := t.svc.scheduler.AddTask(job); err != nil {
		t.logger.Error("安排电脑回合失败", "playerId", player.ID, "error", err)
		return
	}
	t.pendingTask = job.ID

	t.notice = fmt.Sprintf("%s is thinking", player.Name)
	t.emit(ctx, &Event{Type: EventThinking, PlayerID: player.ID, Notice: t.notice})
}

// cancelPending 撤回尚未执行的电脑回合，已执行或已出队的任务靠过期检查忽略
func (t *Table) cancelPending() {
	if t.pendingTask == "" {
		return
	}
	if err := t.svc.scheduler.RemoveTask(t.pendingTask); err != nil && !errors.Is(err, task.ErrTaskNotFound) {
		t.logger.Debug("撤回电脑回合失败", "taskId", t.pendingTask, "error", err)
	}
	t.pendingTask = ""
}

// computerSeat 座位是否由电脑控制
func (t *Table) computerSeat(playerID int) bool {
	computer := false
	t.engine.View(func(state *core.GameState) {
		if p := state.GetPlayer(playerID); p != nil {
			computer = p.Computer
		}
	})
	return computer
}

// thinkDelay 在配置范围内随机取思考时间
func (t *Table) thinkDelay() time.Duration {
	lo, hi := t.svc.cfg.ThinkDelayMin, t.svc.cfg.ThinkDelayMax
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(t.rand.Int63n(int64(hi-lo)))
}

func (t *Table) snapshotLocked(viewer int) *Snapshot {
	snap := t.engine.Snapshot(viewer)
	snap.GameID = t.id
	snap.RoundID = t.roundID
	snap.Notice = t.notice
	return snap
}

func (t *Table) playerName(playerID int) string {
	name := fmt.Sprintf("player %d", playerID)
	t.engine.View(func(state *core.GameState) {
		if p := state.GetPlayer(playerID); p != nil {
			name = p.Name
		}
	})
	return name
}

func (t *Table) emit(ctx context.Context, event *Event) {
	event.GameID = t.id
	event.RoundID = t.roundID
	event.Timestamp = time.Now()
	if err := t.svc.notifier.PublishEvent(ctx, event); err != nil {
		t.logger.Warn("推送事件失败", "type", event.Type, "error", err)
	}
}

func (t *Table) publish(ctx context.Context, snap *Snapshot) {
	if err := t.svc.notifier.PublishState(ctx, snap); err != nil {
		t.logger.Warn("推送状态失败", "error", err)
	}
}
