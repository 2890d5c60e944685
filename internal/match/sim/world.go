package sim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/rules"
	"Warfront/modules/kit/errx"
	"Warfront/modules/kit/logx"
)

const (
	EndReasonHubDestroyed = "hub_destroyed"
	EndReasonStopped      = "stopped"
)

// World 单个对局的模拟引擎。非并发安全：调用方（session actor）保证串行访问。
type World struct {
	state  *entity.GameState
	rules  *rules.Rules
	log    logx.Logger
	now    func() time.Time
	nextID int64
}

type Option func(*World)

func WithLogger(l logx.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *World) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWorld 创建处于 waiting 状态的世界并生成资源分布。
func NewWorld(id entity.SessionID, r *rules.Rules, opts ...Option) *World {
	if r == nil {
		r = rules.Default()
	}
	w := &World{
		state: entity.NewGameState(id),
		rules: r,
		log:   logx.NewZapLogger(nil),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state.ResourceClusters = ClusterCenters(r)
	w.state.Resources = w.seedResources(w.state.ResourceClusters)
	return w
}

func (w *World) State() *entity.GameState { return w.state }

func (w *World) Rules() *rules.Rules { return w.rules }

func (w *World) Snapshot() *entity.Snapshot { return w.state.Snapshot() }

func (w *World) Running() bool { return w.state.Status == entity.StatusPlaying }

func (w *World) nextEntityID() int64 {
	w.nextID++
	return w.nextID
}

// AddPlayer 按加入顺序分配颜色与出生角，创建主基地与一个建造者；第二名玩家加入后开局。
func (w *World) AddPlayer(id entity.PlayerID, name string) (*entity.Player, error) {
	g := w.state
	if g.Status == entity.StatusEnded {
		return nil, ErrMatchEnded
	}
	if _, ok := g.Players[id]; ok {
		return nil, ErrDuplicatePlayer.WithData("player_id", id)
	}
	seat := len(g.JoinOrder)
	if seat >= 2 {
		return nil, ErrSessionFull
	}
	color := entity.ColorBlue
	if seat == 1 {
		color = entity.ColorRed
	}
	p := entity.NewPlayer(id, name, color, w.rules.StartingStock)
	g.Players[id] = p
	g.JoinOrder = append(g.JoinOrder, id)

	hub := w.newBuilding(id, entity.BuildingHub, w.startCorner(seat))
	g.AddEntity(hub)
	g.AddEntity(w.newUnit(id, entity.UnitBuilder, w.spawnPoint(hub)))

	if len(g.JoinOrder) == 2 {
		w.begin()
	}
	return p, nil
}

// Start 显式开局；第二名玩家加入时已自动开局，此时返回 ErrAlreadyStarted。
func (w *World) Start() error {
	switch w.state.Status {
	case entity.StatusPlaying:
		return ErrAlreadyStarted
	case entity.StatusEnded:
		return ErrMatchEnded
	}
	if len(w.state.JoinOrder) < 2 {
		return ErrNotEnoughPlayers
	}
	w.begin()
	return nil
}

// Stop 结束对局，已经结束时返回 false。
func (w *World) Stop() bool {
	return w.finish("", EndReasonStopped)
}

func (w *World) begin() {
	w.state.Status = entity.StatusPlaying
	w.state.StartTime = w.now()
}

func (w *World) finish(winner entity.PlayerID, reason string) bool {
	if w.state.Status == entity.StatusEnded {
		return false
	}
	w.state.Status = entity.StatusEnded
	w.state.Winner = winner
	w.state.EndReason = reason
	w.state.EndTime = w.now()
	return true
}

func (w *World) startCorner(seat int) entity.Position {
	inset := w.rules.StartInset
	if seat == 0 {
		return entity.Position{X: inset, Y: inset}
	}
	return entity.Position{X: w.rules.MapWidth - inset, Y: w.rules.MapHeight - inset}
}

// spawnPoint 建筑右下角外侧固定偏移。
func (w *World) spawnPoint(b *entity.Building) entity.Position {
	off := b.Size/2 + w.rules.SpawnGap
	return w.rules.Clamp(entity.Position{X: b.Position.X + off, Y: b.Position.Y + off})
}

func (w *World) newUnit(owner entity.PlayerID, kind entity.UnitKind, at entity.Position) *entity.Unit {
	stats := w.rules.Units[kind]
	return &entity.Unit{
		Base: entity.Base{
			ID:       entity.EntityID(w.nextEntityID()),
			Owner:    owner,
			HP:       stats.HP,
			MaxHP:    stats.HP,
			Position: at,
			State:    entity.StateIdle,
		},
		Kind: kind,
	}
}

func (w *World) newBuilding(owner entity.PlayerID, kind entity.BuildingKind, at entity.Position) *entity.Building {
	stats := w.rules.Buildings[kind]
	return &entity.Building{
		Base: entity.Base{
			ID:       entity.EntityID(w.nextEntityID()),
			Owner:    owner,
			HP:       stats.HP,
			MaxHP:    stats.HP,
			Position: at,
			State:    entity.StateIdle,
		},
		Kind: kind,
		Size: stats.Size,
	}
}

// ReasonOf 取出指令被拒绝的原因码。
func ReasonOf(err error) string {
	return errx.ReasonOf(err)
}

func (w *World) logReject(pid entity.PlayerID, intent Intent, err error) {
	reason := ReasonOf(err)
	logx.ReportBizWithLoggerContext(context.Background(), w.log,
		logx.NewBizLog("intent_dropped", reason, rejectMessages[reason]),
		zap.String("session_id", string(w.state.ID)),
		zap.String("player_id", string(pid)),
		zap.String("type", intent.Type()),
	)
}
