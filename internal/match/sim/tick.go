package sim

import (
	"time"

	"go.uber.org/zap"

	"Warfront/internal/match/entity"
)

// TickReport 单个 tick 的结果，供 session actor 决定是否继续调度、是否归档。
type TickReport struct {
	Tick     uint64
	Pruned   int
	Ended    bool
	Winner   entity.PlayerID
	Duration time.Duration
}

// Tick 推进世界一个固定步长。非 playing 状态下什么都不做。
//
// 按插入顺序遍历实体：hp<=0 的先移除，被移除的是主基地则对手获胜并立即停止本轮遍历；
// 其余实体交给行为状态机。遍历结束后再清扫一次本轮被打死的实体，保证返回时所有实体 hp>0。
func (w *World) Tick() TickReport {
	g := w.state
	if g.Status != entity.StatusPlaying {
		return TickReport{Tick: g.Tick, Ended: g.Status == entity.StatusEnded, Winner: g.Winner}
	}
	begin := time.Now()
	g.Tick++
	rep := TickReport{Tick: g.Tick}

	for _, id := range g.Order() {
		e, ok := g.Entities[id]
		if !ok {
			continue
		}
		if !e.Common().Alive() {
			rep.Pruned++
			if w.prune(e) {
				break
			}
			continue
		}
		w.step(e)
	}

	if g.Status == entity.StatusPlaying {
		for _, id := range g.Order() {
			e, ok := g.Entities[id]
			if !ok || e.Common().Alive() {
				continue
			}
			rep.Pruned++
			if w.prune(e) {
				break
			}
		}
	}

	rep.Ended = g.Status == entity.StatusEnded
	rep.Winner = g.Winner
	rep.Duration = time.Since(begin)
	return rep
}

// prune 移除死亡实体；主基地被移除时结束对局并返回 true。
func (w *World) prune(e entity.Entity) bool {
	base := e.Common()
	w.state.RemoveEntity(base.ID)

	b, ok := e.(*entity.Building)
	if !ok || b.Kind != entity.BuildingHub {
		return false
	}
	// 迁移过的玩家可能还有别的主基地
	if _, still := w.state.HubOf(b.Owner); still {
		return false
	}
	winner := w.state.Opponent(b.Owner)
	if !w.finish(winner, EndReasonHubDestroyed) {
		return false
	}
	w.log.Info("match ended",
		zap.String("session_id", string(w.state.ID)),
		zap.String("winner", string(winner)),
		zap.String("loser", string(b.Owner)),
		zap.Uint64("tick", w.state.Tick),
	)
	return true
}
