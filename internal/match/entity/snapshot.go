package entity

// Snapshot 是 GameState 的深拷贝，交给传输层序列化广播，脱离 actor 后可以并发读取。
type Snapshot struct {
	ID               SessionID               `json:"id"`
	Status           Status                  `json:"status"`
	Tick             uint64                  `json:"tick"`
	Players          map[PlayerID]PlayerView `json:"players"`
	Entities         map[EntityID]EntityView `json:"entities"`
	Resources        []ResourceNode          `json:"resources"`
	Winner           PlayerID                `json:"winner,omitempty"`
	StartTime        int64                   `json:"startTime,omitempty"` // 毫秒时间戳
	ResourceClusters []Position              `json:"resourceClusters"`
}

type PlayerView struct {
	ID         PlayerID `json:"id"`
	Name       string   `json:"name,omitempty"`
	Color      Color    `json:"color"`
	Resources  Stock    `json:"resources"`
	Population int      `json:"population"`
	Researched []string `json:"researched"`
}

type EntityView struct {
	ID       EntityID      `json:"id"`
	PlayerID PlayerID      `json:"playerId"`
	Category string        `json:"category"`
	Type     string        `json:"type"`
	HP       float64       `json:"hp"`
	MaxHP    float64       `json:"maxHp"`
	Position Position      `json:"position"`
	State    BehaviorState `json:"state"`

	Destination    *Position    `json:"moveDestination,omitempty"`
	TargetID       *int64       `json:"targetId,omitempty"`
	TargetPosition *Position    `json:"targetPosition,omitempty"`
	BuildType      BuildingKind `json:"buildType,omitempty"`
	IsClimbing     bool         `json:"isClimbing,omitempty"`
	ClimbTimerMs   int64        `json:"climbTimer,omitempty"`
	Size           float64      `json:"size,omitempty"`
	Queue          []ItemKind   `json:"productionQueue,omitempty"`
	ProductionMs   int64        `json:"productionTimer,omitempty"`
}

func (g *GameState) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:               g.ID,
		Status:           g.Status,
		Tick:             g.Tick,
		Players:          make(map[PlayerID]PlayerView, len(g.Players)),
		Entities:         make(map[EntityID]EntityView, len(g.Entities)),
		Resources:        make([]ResourceNode, 0, len(g.Resources)),
		Winner:           g.Winner,
		ResourceClusters: append([]Position(nil), g.ResourceClusters...),
	}
	if !g.StartTime.IsZero() {
		s.StartTime = g.StartTime.UnixMilli()
	}
	for id, p := range g.Players {
		researched := make([]string, 0, len(p.Researched))
		for tech := range p.Researched {
			researched = append(researched, tech)
		}
		s.Players[id] = PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Resources:  p.Resources,
			Population: p.Population,
			Researched: researched,
		}
	}
	for _, r := range g.Resources {
		s.Resources = append(s.Resources, *r)
	}
	for id, e := range g.Entities {
		s.Entities[id] = viewOf(e)
	}
	return s
}

func viewOf(e Entity) EntityView {
	base := e.Common()
	v := EntityView{
		ID:       base.ID,
		PlayerID: base.Owner,
		HP:       base.HP,
		MaxHP:    base.MaxHP,
		Position: base.Position,
		State:    base.State,
	}
	switch x := e.(type) {
	case *Unit:
		v.Category = "unit"
		v.Type = string(x.Kind)
		v.Destination = copyPos(x.Destination)
		switch {
		case x.AttackTarget != nil:
			id := int64(*x.AttackTarget)
			v.TargetID = &id
		case x.GatherTarget != nil:
			id := int64(*x.GatherTarget)
			v.TargetID = &id
		}
		v.TargetPosition = copyPos(x.BuildSite)
		v.BuildType = x.BuildKind
		v.IsClimbing = x.Climbing
		v.ClimbTimerMs = x.ClimbTimeLeft.Milliseconds()
	case *Building:
		v.Category = "building"
		v.Type = string(x.Kind)
		v.Size = x.Size
		v.Queue = append([]ItemKind(nil), x.Queue...)
		v.ProductionMs = x.ProductionLeft.Milliseconds()
	}
	return v
}

func copyPos(p *Position) *Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
