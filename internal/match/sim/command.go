package sim

import (
	"context"

	"go.uber.org/zap"

	"Warfront/internal/match/entity"
	"Warfront/modules/kit/logx"
)

// Apply 校验并执行一条玩家指令。返回 nil 表示已生效；非 nil 时状态保证未被修改，
// 错误只用于日志和指标，不回给客户端。
func (w *World) Apply(pid entity.PlayerID, intent Intent) error {
	if intent == nil {
		return reject(ReasonMalformed)
	}
	err := w.apply(pid, intent)
	if err != nil {
		w.logReject(pid, intent, err)
	}
	return err
}

func (w *World) apply(pid entity.PlayerID, intent Intent) error {
	if w.state.Status != entity.StatusPlaying {
		return reject(ReasonNotPlaying)
	}
	if _, ok := w.state.Players[pid]; !ok {
		return reject(ReasonNotOwner)
	}
	switch in := intent.(type) {
	case Move:
		return w.applyMove(pid, in)
	case Gather:
		return w.applyGather(pid, in)
	case Attack:
		return w.applyAttack(pid, in)
	case Build:
		return w.applyBuild(pid, in)
	case Train:
		return w.applyTrain(pid, in)
	}
	return reject(ReasonMalformed)
}

// ownedUnits 按顺序挑出属于 pid 的单位；一个都没有时返回首个失败原因。
func (w *World) ownedUnits(pid entity.PlayerID, ids []entity.EntityID, accept func(*entity.Unit) bool) ([]*entity.Unit, error) {
	if len(ids) == 0 {
		return nil, reject(ReasonMalformed)
	}
	var (
		out   []*entity.Unit
		first error
	)
	fail := func(r Reason) {
		if first == nil {
			first = reject(r)
		}
	}
	for _, id := range ids {
		e, ok := w.state.Entities[id]
		if !ok {
			fail(ReasonStaleTarget)
			continue
		}
		if e.Common().Owner != pid {
			fail(ReasonNotOwner)
			continue
		}
		u, ok := e.(*entity.Unit)
		if !ok || (accept != nil && !accept(u)) {
			fail(ReasonWrongKind)
			continue
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, first
	}
	return out, nil
}

// idleOnTargetGone 目标已不存在：指令仍然生效，单位回到 idle。
func (w *World) idleOnTargetGone(pid entity.PlayerID, intent Intent, units []*entity.Unit) {
	for _, u := range units {
		u.Idle()
	}
	logx.ReportBizWithLoggerContext(context.Background(), w.log,
		logx.NewBizLog("intent_target_gone", ReasonStaleTarget.Code, ReasonStaleTarget.Message),
		zap.String("session_id", string(w.state.ID)),
		zap.String("player_id", string(pid)),
		zap.String("type", intent.Type()),
		zap.Int("units", len(units)),
	)
}

func (w *World) applyMove(pid entity.PlayerID, in Move) error {
	if in.Target == nil {
		return reject(ReasonMalformed)
	}
	units, err := w.ownedUnits(pid, in.EntityIDs, nil)
	if err != nil {
		return err
	}
	dest := w.rules.Clamp(*in.Target)
	for _, u := range units {
		climbing, left := u.Climbing, u.ClimbTimeLeft
		u.Idle()
		u.Climbing, u.ClimbTimeLeft = climbing, left
		d := dest
		u.Destination = &d
		u.State = entity.StateMoving
	}
	return nil
}

func (w *World) applyGather(pid entity.PlayerID, in Gather) error {
	if in.ResourceID == nil {
		return reject(ReasonMalformed)
	}
	units, err := w.ownedUnits(pid, in.EntityIDs, func(u *entity.Unit) bool { return u.Kind.CanGather() })
	if err != nil {
		return err
	}
	if _, ok := w.state.Resource(*in.ResourceID); !ok {
		w.idleOnTargetGone(pid, in, units)
		return nil
	}
	for _, u := range units {
		u.Idle()
		rid := *in.ResourceID
		u.GatherTarget = &rid
		u.State = entity.StateGathering
	}
	return nil
}

// applyAttack 不检查目标归属，允许攻击己方实体。
func (w *World) applyAttack(pid entity.PlayerID, in Attack) error {
	if in.TargetID == nil {
		return reject(ReasonMalformed)
	}
	units, err := w.ownedUnits(pid, in.EntityIDs, func(u *entity.Unit) bool { return u.ID != *in.TargetID })
	if err != nil {
		return err
	}
	target, ok := w.state.Entities[*in.TargetID]
	if !ok || !target.Common().Alive() {
		w.idleOnTargetGone(pid, in, units)
		return nil
	}
	for _, u := range units {
		climbing, left := u.Climbing, u.ClimbTimeLeft
		u.Idle()
		u.Climbing, u.ClimbTimeLeft = climbing, left
		tid := *in.TargetID
		u.AttackTarget = &tid
		u.State = entity.StateAttacking
	}
	if target.Common().Owner == pid {
		w.log.Warn("friendly fire accepted",
			zap.String("session_id", string(w.state.ID)),
			zap.String("player_id", string(pid)),
			zap.Int64("target_id", int64(*in.TargetID)),
		)
	}
	return nil
}

func (w *World) applyBuild(pid entity.PlayerID, in Build) error {
	if in.BuildingType == "" || in.Position == nil {
		return reject(ReasonMalformed)
	}
	if _, ok := w.rules.Buildings[in.BuildingType]; !ok {
		return reject(ReasonMalformed)
	}
	builder, err := w.builderFor(pid, in.BuilderID)
	if err != nil {
		return err
	}

	if in.BuildingType == entity.BuildingHub {
		center, ok := w.nearestCluster(*in.Position, w.rules.HubSiteTolerance)
		if !ok {
			return reject(ReasonInvalidSite)
		}
		if hub, exists := w.state.HubOf(pid); exists {
			hub.Position = center
			return nil
		}
		w.state.AddEntity(w.newBuilding(pid, entity.BuildingHub, center))
		return nil
	}

	cost, ok := w.rules.BuildCosts[in.BuildingType]
	if !ok {
		return reject(ReasonWrongKind)
	}
	p := w.state.Players[pid]
	if !p.Resources.Covers(cost) {
		return reject(ReasonUnaffordable)
	}
	p.Resources.Spend(cost)

	site := w.rules.Clamp(*in.Position)
	builder.Idle()
	builder.BuildSite = &site
	builder.BuildKind = in.BuildingType
	builder.State = entity.StateBuilding
	return nil
}

// builderFor 指定了 builderId 就校验它；否则取该玩家最早的一个建造者。
func (w *World) builderFor(pid entity.PlayerID, id *entity.EntityID) (*entity.Unit, error) {
	if id != nil {
		e, ok := w.state.Entities[*id]
		if !ok {
			return nil, reject(ReasonStaleTarget)
		}
		if e.Common().Owner != pid {
			return nil, reject(ReasonNotOwner)
		}
		u, ok := e.(*entity.Unit)
		if !ok || u.Kind != entity.UnitBuilder {
			return nil, reject(ReasonWrongKind)
		}
		return u, nil
	}
	for _, eid := range w.state.Order() {
		if u, ok := w.state.Unit(eid); ok && u.Owner == pid && u.Kind == entity.UnitBuilder && u.Alive() {
			return u, nil
		}
	}
	return nil, reject(ReasonWrongKind)
}

func (w *World) applyTrain(pid entity.PlayerID, in Train) error {
	if in.BuildingID == nil || in.UnitType == "" {
		return reject(ReasonMalformed)
	}
	cost, ok := w.rules.TrainCosts[in.UnitType]
	if !ok {
		return reject(ReasonMalformed)
	}
	e, ok := w.state.Entities[*in.BuildingID]
	if !ok {
		return reject(ReasonStaleTarget)
	}
	if e.Common().Owner != pid {
		return reject(ReasonNotOwner)
	}
	b, ok := e.(*entity.Building)
	if !ok || !w.rules.CanProduce(b.Kind, in.UnitType) {
		return reject(ReasonWrongKind)
	}
	if len(b.Queue) >= w.rules.MaxQueue {
		return reject(ReasonQueueFull)
	}
	p := w.state.Players[pid]
	if !p.Resources.Covers(cost) {
		return reject(ReasonUnaffordable)
	}
	p.Resources.Spend(cost)
	b.Queue = append(b.Queue, in.UnitType)
	b.State = entity.StateProducing
	return nil
}
