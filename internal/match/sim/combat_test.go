package sim

import (
	"testing"

	"Warfront/internal/match/entity"
)

func attackWith(u *entity.Unit, target entity.EntityID) {
	u.AttackTarget = &target
	u.State = entity.StateAttacking
}

func TestAttack_射程内每tick造成攻击力两成伤害(t *testing.T) {
	w := newMatch(t)
	target := spawnUnit(w, red, entity.UnitKnight, entity.Position{X: 1000, Y: 1000})
	archer := spawnUnit(w, blue, entity.UnitArcher, entity.Position{X: 1000, Y: 1150})
	attackWith(archer, target.ID)

	w.Tick()
	want := target.MaxHP - 15*0.2
	if target.HP != want {
		t.Fatalf("hp=%f, want %f", target.HP, want)
	}
	if archer.Position != (entity.Position{X: 1000, Y: 1150}) {
		t.Fatalf("archer should not move when in range")
	}
}

func TestAttack_射程外先靠近(t *testing.T) {
	w := newMatch(t)
	target := spawnUnit(w, red, entity.UnitLumberjack, entity.Position{X: 1000, Y: 1000})
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 1000, Y: 1100})
	attackWith(knight, target.ID)

	w.Tick()
	if target.HP != target.MaxHP {
		t.Fatalf("out of range attack dealt damage")
	}
	if knight.Position.Y >= 1100 {
		t.Fatalf("knight did not close in: %+v", knight.Position)
	}
}

func TestAttack_有梯子时翻墙且不造成伤害(t *testing.T) {
	w := newMatch(t)
	wall := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	attackWith(knight, wall.ID)
	w.state.Players[blue].Resources.Ladders = 1

	w.Tick()
	if w.state.Players[blue].Resources.Ladders != 0 {
		t.Fatalf("ladder not consumed")
	}
	if !knight.Climbing || knight.ClimbTimeLeft != w.rules.ClimbDuration {
		t.Fatalf("climb not started: climbing=%v left=%v", knight.Climbing, knight.ClimbTimeLeft)
	}
	if wall.HP != wall.MaxHP {
		t.Fatalf("climbing attacker damaged the wall")
	}
	if knight.Destination == nil || *knight.Destination != (entity.Position{X: 500, Y: 540}) {
		t.Fatalf("climb point=%v, want 40 past wall center", knight.Destination)
	}
	if knight.Position.Y <= 465 {
		t.Fatalf("climber should move through the wall radius: %+v", knight.Position)
	}
}

func TestAttack_翻墙计时结束后清除标记(t *testing.T) {
	w := newMatch(t)
	wall := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	attackWith(knight, wall.ID)
	w.state.Players[blue].Resources.Ladders = 1

	n := int(w.rules.ClimbDuration / w.rules.TickInterval)
	ticks(w, n+1)
	if knight.Climbing {
		t.Fatalf("still climbing after %d ticks", n+1)
	}
	if w.state.Players[blue].Resources.Ladders != 0 {
		t.Fatalf("ladders=%d", w.state.Players[blue].Resources.Ladders)
	}
	if knight.State != entity.StateAttacking {
		t.Fatalf("state=%s, want attacking", knight.State)
	}
}

func TestAttack_没有梯子时直接攻击城墙(t *testing.T) {
	w := newMatch(t)
	wall := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	attackWith(knight, wall.ID)

	w.Tick()
	if knight.Climbing {
		t.Fatalf("climbed without ladder")
	}
	if wall.HP != wall.MaxHP-20*0.2 {
		t.Fatalf("wall hp=%f", wall.HP)
	}
}

func TestAttack_目标消失回到idle并清除翻墙(t *testing.T) {
	w := newMatch(t)
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	attackWith(knight, entity.EntityID(424242))
	knight.Climbing = true
	knight.ClimbTimeLeft = w.rules.ClimbDuration

	w.Tick()
	if knight.State != entity.StateIdle || knight.Climbing || knight.AttackTarget != nil {
		t.Fatalf("expected clean idle, got %+v", knight)
	}
}

func TestAttack_翻墙途中换攻击另一堵墙继续前进(t *testing.T) {
	w := newMatch(t)
	wallA := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	wallB := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 700})
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	attackWith(knight, wallA.ID)
	w.state.Players[blue].Resources.Ladders = 1

	w.Tick()
	if !knight.Climbing {
		t.Fatalf("climb not started")
	}
	if err := w.Apply(blue, Attack{EntityIDs: []entity.EntityID{knight.ID}, TargetID: idp(wallB.ID)}); err != nil {
		t.Fatalf("retarget: %v", err)
	}
	if !knight.Climbing || knight.Destination != nil {
		t.Fatalf("retarget should keep the climb and drop the old climb point: climbing=%v dest=%v", knight.Climbing, knight.Destination)
	}

	y := knight.Position.Y
	ticks(w, 10)
	if knight.Destination == nil || *knight.Destination != (entity.Position{X: 500, Y: 740}) {
		t.Fatalf("climb point=%v, want 40 past wall B", knight.Destination)
	}
	if knight.Position.Y <= y {
		t.Fatalf("climber stalled at %+v", knight.Position)
	}
	if wallB.HP != wallB.MaxHP {
		t.Fatalf("climbing attacker damaged wall B")
	}
}
