package entity

import "time"

// GameState 对局的根聚合。只允许在所属 session actor 内修改。
type GameState struct {
	ID               SessionID
	Status           Status
	Players          map[PlayerID]*Player
	JoinOrder        []PlayerID
	Entities         map[EntityID]Entity
	Resources        []*ResourceNode
	Winner           PlayerID
	StartTime        time.Time
	EndTime          time.Time
	EndReason        string
	ResourceClusters []Position
	Tick             uint64

	order []EntityID
}

func NewGameState(id SessionID) *GameState {
	return &GameState{
		ID:       id,
		Status:   StatusWaiting,
		Players:  make(map[PlayerID]*Player),
		Entities: make(map[EntityID]Entity),
	}
}

// Order 返回按插入顺序排列的实体 id 副本，遍历期间可安全增删实体。
func (g *GameState) Order() []EntityID {
	out := make([]EntityID, len(g.order))
	copy(out, g.order)
	return out
}

func (g *GameState) AddEntity(e Entity) {
	id := e.Common().ID
	if _, exists := g.Entities[id]; !exists {
		g.order = append(g.order, id)
	}
	g.Entities[id] = e
	if u, ok := e.(*Unit); ok {
		if p := g.Players[u.Owner]; p != nil {
			p.Population++
		}
	}
}

func (g *GameState) RemoveEntity(id EntityID) (Entity, bool) {
	e, ok := g.Entities[id]
	if !ok {
		return nil, false
	}
	delete(g.Entities, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if u, ok := e.(*Unit); ok {
		if p := g.Players[u.Owner]; p != nil && p.Population > 0 {
			p.Population--
		}
	}
	return e, true
}

func (g *GameState) Unit(id EntityID) (*Unit, bool) {
	u, ok := g.Entities[id].(*Unit)
	return u, ok
}

func (g *GameState) Building(id EntityID) (*Building, bool) {
	b, ok := g.Entities[id].(*Building)
	return b, ok
}

// HubOf 返回玩家存活的主基地。
func (g *GameState) HubOf(pid PlayerID) (*Building, bool) {
	for _, id := range g.order {
		b, ok := g.Entities[id].(*Building)
		if ok && b.Owner == pid && b.Kind == BuildingHub && b.Alive() {
			return b, true
		}
	}
	return nil, false
}

// Walls 返回所有玩家的城墙。
func (g *GameState) Walls() []*Building {
	var out []*Building
	for _, id := range g.order {
		if b, ok := g.Entities[id].(*Building); ok && b.Kind == BuildingWall {
			out = append(out, b)
		}
	}
	return out
}

func (g *GameState) Resource(id ResourceID) (*ResourceNode, bool) {
	for _, r := range g.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (g *GameState) RemoveResource(id ResourceID) {
	for i, r := range g.Resources {
		if r.ID == id {
			g.Resources = append(g.Resources[:i], g.Resources[i+1:]...)
			return
		}
	}
}

// Opponent 返回另一名玩家；人数不足时返回空。
func (g *GameState) Opponent(pid PlayerID) PlayerID {
	for _, id := range g.JoinOrder {
		if id != pid {
			return id
		}
	}
	return ""
}
