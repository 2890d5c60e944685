package sim

import (
	"testing"

	"Warfront/internal/match/entity"
)

func addTree(w *World, id entity.ResourceID, at entity.Position, amount int) *entity.ResourceNode {
	node := &entity.ResourceNode{ID: id, Kind: entity.ResourceTree, Position: at, Amount: amount}
	w.state.Resources = append(w.state.Resources, node)
	return node
}

func TestTick_采集往返入账且继续采集同一资源(t *testing.T) {
	w := newMatch(t)
	hub := hubOf(t, w, blue)
	tree := addTree(w, 90001, entity.Position{X: hub.Position.X + 20, Y: hub.Position.Y + 20}, 1000)
	lj := spawnUnit(w, blue, entity.UnitLumberjack, entity.Position{X: hub.Position.X + 15, Y: hub.Position.Y + 15})

	rid := tree.ID
	lj.GatherTarget = &rid
	lj.State = entity.StateGathering
	wood := w.state.Players[blue].Resources.Wood

	w.Tick()
	if lj.State != entity.StateReturning {
		t.Fatalf("after contact state=%s, want returning", lj.State)
	}
	if tree.Amount != 990 {
		t.Fatalf("amount=%d, want 990", tree.Amount)
	}

	w.Tick()
	if got := w.state.Players[blue].Resources.Wood; got != wood+1 {
		t.Fatalf("wood=%d, want %d", got, wood+1)
	}
	if lj.State != entity.StateGathering {
		t.Fatalf("after return state=%s, want gathering", lj.State)
	}
	if lj.GatherTarget == nil || *lj.GatherTarget != rid {
		t.Fatalf("gather target lost: %v", lj.GatherTarget)
	}
}

func TestTick_矿工入账石头(t *testing.T) {
	w := newMatch(t)
	hub := hubOf(t, w, blue)
	rock := &entity.ResourceNode{ID: 90002, Kind: entity.ResourceRock, Position: hub.Position, Amount: 100}
	w.state.Resources = append(w.state.Resources, rock)
	m := spawnUnit(w, blue, entity.UnitMiner, hub.Position)
	rid := rock.ID
	m.GatherTarget = &rid
	m.State = entity.StateGathering
	stone := w.state.Players[blue].Resources.Stone

	ticks(w, 2)
	if got := w.state.Players[blue].Resources.Stone; got != stone+1 {
		t.Fatalf("stone=%d, want %d", got, stone+1)
	}
}

func TestTick_资源耗尽后移除并回到idle(t *testing.T) {
	w := newMatch(t)
	hub := hubOf(t, w, blue)
	tree := addTree(w, 90003, entity.Position{X: hub.Position.X + 10, Y: hub.Position.Y}, 15)
	lj := spawnUnit(w, blue, entity.UnitLumberjack, hub.Position)
	rid := tree.ID
	lj.GatherTarget = &rid
	lj.State = entity.StateGathering

	w.Tick()
	if tree.Amount != 5 {
		t.Fatalf("amount=%d, want 5", tree.Amount)
	}
	w.Tick() // return
	w.Tick() // second contact
	if _, ok := w.state.Resource(rid); ok {
		t.Fatalf("depleted node still present")
	}
	if lj.State != entity.StateReturning {
		t.Fatalf("state=%s, want returning with last load", lj.State)
	}
	w.Tick() // return
	w.Tick() // node gone
	if lj.State != entity.StateIdle || lj.GatherTarget != nil {
		t.Fatalf("expected idle with no target, got %s %v", lj.State, lj.GatherTarget)
	}
}

func TestTick_没有主基地时returning回到idle(t *testing.T) {
	w := newMatch(t)
	lj := spawnUnit(w, blue, entity.UnitLumberjack, entity.Position{X: 1000, Y: 1000})
	rid := entity.ResourceID(1)
	lj.GatherTarget = &rid
	lj.State = entity.StateReturning
	w.state.RemoveEntity(hubOf(t, w, blue).ID)

	w.Tick()
	if lj.State != entity.StateIdle {
		t.Fatalf("state=%s, want idle", lj.State)
	}
}

func TestTick_剪除后所有实体hp大于零(t *testing.T) {
	w := newMatch(t)
	hub := hubOf(t, w, red)
	victim := spawnUnit(w, red, entity.UnitLumberjack, entity.Position{X: hub.Position.X - 100, Y: hub.Position.Y - 100})
	victim.HP = 3
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: victim.Position.X - 10, Y: victim.Position.Y})
	tid := victim.ID
	knight.AttackTarget = &tid
	knight.State = entity.StateAttacking

	dead := spawnUnit(w, red, entity.UnitMiner, entity.Position{X: 1000, Y: 1000})
	dead.HP = 0

	pop := w.state.Players[red].Population
	rep := w.Tick()
	for id, e := range w.state.Entities {
		if !e.Common().Alive() {
			t.Fatalf("entity %d kept with hp=%f", id, e.Common().HP)
		}
	}
	if _, ok := w.state.Entities[victim.ID]; ok {
		t.Fatalf("victim should be pruned in the same tick")
	}
	if rep.Pruned != 2 {
		t.Fatalf("pruned=%d, want 2", rep.Pruned)
	}
	if got := w.state.Players[red].Population; got != pop-2 {
		t.Fatalf("population=%d, want %d", got, pop-2)
	}

	w.Tick()
	if knight.State != entity.StateIdle || knight.AttackTarget != nil {
		t.Fatalf("knight should idle after target gone, got %s", knight.State)
	}
}

func TestTick_主基地被摧毁后对手获胜且停止推进(t *testing.T) {
	w := newMatch(t)
	hub := hubOf(t, w, red)
	hub.HP = 4
	knight := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: hub.Position.X - 30, Y: hub.Position.Y})
	tid := hub.ID
	knight.AttackTarget = &tid
	knight.State = entity.StateAttacking

	rep := w.Tick()
	if !rep.Ended || rep.Winner != blue {
		t.Fatalf("report=%+v, want ended with winner blue", rep)
	}
	if w.state.Status != entity.StatusEnded || w.state.Winner != blue {
		t.Fatalf("status=%s winner=%s", w.state.Status, w.state.Winner)
	}
	if w.state.EndReason != EndReasonHubDestroyed {
		t.Fatalf("reason=%s", w.state.EndReason)
	}

	at := w.state.Tick
	pos := knight.Position
	ticks(w, 5)
	if w.state.Tick != at || knight.Position != pos {
		t.Fatalf("world advanced after end")
	}
}

func TestTick_hp已归零的主基地在遍历开始时结束对局(t *testing.T) {
	w := newMatch(t)
	hubOf(t, w, blue).HP = 0
	w.Tick()
	if w.state.Winner != red || w.state.Status != entity.StatusEnded {
		t.Fatalf("winner=%s status=%s", w.state.Winner, w.state.Status)
	}
}

func TestTick_单个实体panic不影响其他实体(t *testing.T) {
	w := newMatch(t)
	broken := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 10, Y: 10})
	ghost := entity.EntityID(777777)
	w.state.Entities[ghost] = (*entity.Unit)(nil)
	broken.AttackTarget = &ghost
	broken.State = entity.StateAttacking

	mover := spawnUnit(w, blue, entity.UnitBuilder, entity.Position{X: 500, Y: 500})
	dest := entity.Position{X: 600, Y: 500}
	mover.Destination = &dest
	mover.State = entity.StateMoving

	w.Tick()
	if mover.Position.X <= 500 {
		t.Fatalf("mover did not advance: %+v", mover.Position)
	}
	if !w.Running() {
		t.Fatalf("panic in one entity must not end the match")
	}
}

func TestTick_移动到达后贴合并回到idle(t *testing.T) {
	w := newMatch(t)
	u := spawnUnit(w, blue, entity.UnitBuilder, entity.Position{X: 1000, Y: 1000})
	dest := entity.Position{X: 1030, Y: 1000}
	u.Destination = &dest
	u.State = entity.StateMoving

	ticks(w, 10)
	if u.Position != dest {
		t.Fatalf("position=%+v, want %+v", u.Position, dest)
	}
	if u.State != entity.StateIdle || u.Destination != nil {
		t.Fatalf("expected idle without destination, got %s %v", u.State, u.Destination)
	}
}

func TestTick_城墙阻挡移动(t *testing.T) {
	w := newMatch(t)
	wall := spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	u := spawnUnit(w, blue, entity.UnitKnight, entity.Position{X: 500, Y: 465})
	dest := entity.Position{X: 500, Y: 540}
	u.Destination = &dest
	u.State = entity.StateMoving

	w.Tick()
	if u.Position != (entity.Position{X: 500, Y: 465}) {
		t.Fatalf("unit moved into wall radius: %+v (wall %+v)", u.Position, wall.Position)
	}
	if u.State != entity.StateIdle || u.Destination != nil {
		t.Fatalf("blocked move should go idle, got %s", u.State)
	}
}

func TestTick_被城墙挡住的采集不取消(t *testing.T) {
	w := newMatch(t)
	spawnBuilding(w, red, entity.BuildingWall, entity.Position{X: 500, Y: 500})
	tree := addTree(w, 90004, entity.Position{X: 500, Y: 560}, 100)
	u := spawnUnit(w, blue, entity.UnitLumberjack, entity.Position{X: 500, Y: 465})
	rid := tree.ID
	u.GatherTarget = &rid
	u.State = entity.StateGathering

	w.Tick()
	if u.State != entity.StateGathering {
		t.Fatalf("state=%s, want gathering", u.State)
	}
	if u.Position != (entity.Position{X: 500, Y: 465}) {
		t.Fatalf("unit moved into wall radius: %+v", u.Position)
	}
}

func TestTick_建造者到达工地后落成建筑(t *testing.T) {
	w := newMatch(t)
	u := spawnUnit(w, blue, entity.UnitBuilder, entity.Position{X: 1000, Y: 1000})
	site := entity.Position{X: 1060, Y: 1000}
	u.BuildSite = &site
	u.BuildKind = entity.BuildingBarracks
	u.State = entity.StateBuilding

	before := len(w.state.Entities)
	ticks(w, 10)
	if len(w.state.Entities) != before+1 {
		t.Fatalf("entities=%d, want %d", len(w.state.Entities), before+1)
	}
	var found *entity.Building
	for _, e := range w.state.Entities {
		if b, ok := e.(*entity.Building); ok && b.Kind == entity.BuildingBarracks {
			found = b
		}
	}
	if found == nil || found.Position != site || found.Owner != blue || found.HP != found.MaxHP {
		t.Fatalf("barracks not built as expected: %+v", found)
	}
	if u.State != entity.StateIdle || u.BuildSite != nil || u.BuildKind != "" {
		t.Fatalf("builder should be idle and cleared, got %+v", u)
	}
}
