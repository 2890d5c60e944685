package sim

import "Warfront/internal/match/entity"

// advance 让单位朝 target 前进一步：速度 × 倍率，不越过目标，近距离直接贴合。
// 非攀爬状态下落点进入任一城墙的阻挡半径则放弃本次移动并返回 false。
func (w *World) advance(u *entity.Unit, target entity.Position) bool {
	step := w.rules.Units[u.Kind].Speed * w.rules.SpeedMultiplier
	next := target
	if u.Position.DistanceTo(target) > w.rules.ArriveSnap {
		next = u.Position.Toward(target, step)
	}
	next = w.rules.Clamp(next)
	if !u.Climbing && w.blockedByWall(u.Position, next) {
		return false
	}
	u.Position = next
	return true
}

// blockedByWall 落点在城墙中心 size/2+clearance 范围内即视为碰撞。
// 已经处在阻挡范围内的单位（例如刚建完墙的建造者）允许向外移动。
func (w *World) blockedByWall(from, to entity.Position) bool {
	for _, wall := range w.state.Walls() {
		if !wall.Alive() {
			continue
		}
		radius := wall.Size/2 + w.rules.WallClearance
		dTo := to.DistanceTo(wall.Position)
		if dTo >= radius {
			continue
		}
		if from.DistanceTo(wall.Position) < radius && dTo > from.DistanceTo(wall.Position) {
			continue
		}
		return true
	}
	return false
}

// move 处理 moving 状态：到达后贴合目标并回到 idle；被城墙挡住同样回到 idle。
func (w *World) move(u *entity.Unit) {
	if u.Destination == nil {
		u.Idle()
		return
	}
	dest := *u.Destination
	if u.Position.DistanceTo(dest) < w.rules.ArriveSnap {
		u.Position = dest
		u.Idle()
		return
	}
	if !w.advance(u, dest) {
		u.Idle()
	}
}
