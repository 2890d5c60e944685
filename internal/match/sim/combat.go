package sim

import "Warfront/internal/match/entity"

// attack 处理 attacking 状态。
func (w *World) attack(u *entity.Unit) {
	if u.AttackTarget == nil {
		u.Idle()
		return
	}
	target, ok := w.state.Entities[*u.AttackTarget]
	if !ok || !target.Common().Alive() {
		u.Idle()
		return
	}
	tb := target.Common()
	dist := u.Position.DistanceTo(tb.Position)

	wall, isWall := target.(*entity.Building)
	isWall = isWall && wall.Kind == entity.BuildingWall

	if isWall && !u.Climbing && dist < w.rules.LadderReach {
		w.startClimb(u, wall)
	}
	if isWall && u.Climbing {
		// 翻墙期间不攻击，继续往墙后走；换目标后没有落点时按当前墙重新计算
		if u.Destination == nil {
			over := w.climbPoint(u.Position, wall.Position)
			u.Destination = &over
		}
		w.advance(u, *u.Destination)
		return
	}

	stats := w.rules.Units[u.Kind]
	if dist <= stats.Range+w.rules.MeleeSlack {
		tb.Damage(stats.Attack * w.rules.DamageFactor)
		return
	}
	w.advance(u, tb.Position)
}

// startClimb 消耗一个梯子开始翻墙，没有梯子时什么都不做。
func (w *World) startClimb(u *entity.Unit, wall *entity.Building) {
	p := w.state.Players[u.Owner]
	if p == nil || p.Resources.Ladders < 1 {
		return
	}
	p.Resources.Ladders--
	u.Climbing = true
	u.ClimbTimeLeft = w.rules.ClimbDuration
	if u.Destination == nil {
		over := w.climbPoint(u.Position, wall.Position)
		u.Destination = &over
	}
}

// climbPoint 沿攻击方向越过墙中心 ClimbOvershoot 的点。
func (w *World) climbPoint(from, wall entity.Position) entity.Position {
	d := from.DistanceTo(wall)
	dx, dy := 1.0, 0.0
	if d > 0 {
		dx = (wall.X - from.X) / d
		dy = (wall.Y - from.Y) / d
	}
	return w.rules.Clamp(entity.Position{
		X: wall.X + dx*w.rules.ClimbOvershoot,
		Y: wall.Y + dy*w.rules.ClimbOvershoot,
	})
}

// tickClimb 每个 tick 扣减翻墙计时，归零时结束翻墙并丢弃翻墙落点。
func (w *World) tickClimb(u *entity.Unit) {
	if !u.Climbing {
		return
	}
	u.ClimbTimeLeft -= w.rules.TickInterval
	if u.ClimbTimeLeft > 0 {
		return
	}
	u.Climbing = false
	u.ClimbTimeLeft = 0
	if u.State == entity.StateAttacking {
		u.Destination = nil
	}
}
