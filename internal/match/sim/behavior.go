package sim

import (
	"go.uber.org/zap"

	"Warfront/internal/match/entity"
)

// step 推进单个实体一个 tick。单个实体出错只记日志，不影响其他实体。
func (w *World) step(e entity.Entity) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("entity step panic",
				zap.String("session_id", string(w.state.ID)),
				zap.Int64("entity_id", int64(e.Common().ID)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	switch x := e.(type) {
	case *entity.Unit:
		w.stepUnit(x)
	case *entity.Building:
		w.stepBuilding(x)
	}
}

func (w *World) stepUnit(u *entity.Unit) {
	w.tickClimb(u)

	switch u.State {
	case entity.StateIdle:
	case entity.StateMoving:
		w.move(u)
	case entity.StateGathering:
		w.gather(u)
	case entity.StateReturning:
		w.returnCargo(u)
	case entity.StateAttacking:
		w.attack(u)
	case entity.StateBuilding:
		w.construct(u)
	default:
		u.Idle()
	}
}

func (w *World) stepBuilding(b *entity.Building) {
	if b.State == entity.StateProducing || len(b.Queue) > 0 {
		w.produce(b)
	}
}

// gather 走到资源点后采集一次，然后转入 returning。
func (w *World) gather(u *entity.Unit) {
	if u.GatherTarget == nil {
		u.Idle()
		return
	}
	node, ok := w.state.Resource(*u.GatherTarget)
	if !ok {
		u.Idle()
		return
	}
	if u.Position.DistanceTo(node.Position) >= w.rules.GatherReach {
		w.advance(u, node.Position)
		return
	}
	node.Amount -= w.rules.GatherAmount
	if node.Amount <= 0 {
		w.state.RemoveResource(node.ID)
	}
	u.State = entity.StateReturning
}

// returnCargo 回到己方主基地交付，然后继续采集同一个资源点。
func (w *World) returnCargo(u *entity.Unit) {
	hub, ok := w.state.HubOf(u.Owner)
	if !ok {
		u.Idle()
		return
	}
	if u.Position.DistanceTo(hub.Position) >= w.rules.ReturnReach {
		w.advance(u, hub.Position)
		return
	}
	if p := w.state.Players[u.Owner]; p != nil {
		p.Credit(u.Kind, w.rules.ReturnCredit)
	}
	u.State = entity.StateGathering
}

// construct 建造者走到工地后落成建筑，费用已在下达指令时扣除。
func (w *World) construct(u *entity.Unit) {
	if u.BuildSite == nil {
		u.Idle()
		return
	}
	site := *u.BuildSite
	if u.Position.DistanceTo(site) > w.rules.BuildReach {
		w.advance(u, site)
		return
	}
	if u.BuildKind != "" {
		w.state.AddEntity(w.newBuilding(u.Owner, u.BuildKind, site))
	}
	u.Idle()
}

// produce 只推进队首条目；队列清空后建筑回到 idle。
func (w *World) produce(b *entity.Building) {
	if len(b.Queue) == 0 {
		b.Idle()
		return
	}
	b.State = entity.StateProducing
	if !b.Producing {
		b.Producing = true
		b.ProductionLeft = w.rules.ProductionTime(b.Queue[0])
	}
	b.ProductionLeft -= w.rules.TickInterval
	if b.ProductionLeft > 0 {
		return
	}

	item := b.Queue[0]
	b.Queue = b.Queue[1:]
	b.Producing = false
	b.ProductionLeft = 0
	w.deliver(b, item)

	if len(b.Queue) == 0 {
		b.Idle()
	}
}

func (w *World) deliver(b *entity.Building, item entity.ItemKind) {
	p := w.state.Players[b.Owner]
	if p == nil {
		return
	}
	switch item {
	case entity.ItemIronIngot:
		p.Resources.Iron++
		return
	case entity.ItemLadder:
		p.Resources.Ladders++
		return
	}
	if kind, ok := item.Unit(); ok {
		w.state.AddEntity(w.newUnit(b.Owner, kind, w.spawnPoint(b)))
	}
}
