package entity

import "time"

// Entity 是单位与建筑的和类型，用 type switch 区分：
//
//	switch e := ent.(type) {
//	case *Unit:
//	case *Building:
//	}
type Entity interface {
	Common() *Base
	isEntity()
}

// Base 单位与建筑共享的字段。
type Base struct {
	ID       EntityID
	Owner    PlayerID
	HP       float64
	MaxHP    float64
	Position Position
	State    BehaviorState
}

func (b *Base) Common() *Base { return b }

func (b *Base) Alive() bool { return b.HP > 0 }

// Damage 扣血，HP 不低于 0。
func (b *Base) Damage(amount float64) {
	b.HP -= amount
	if b.HP < 0 {
		b.HP = 0
	}
}

type Unit struct {
	Base
	Kind UnitKind

	Destination  *Position
	AttackTarget *EntityID
	GatherTarget *ResourceID
	BuildSite    *Position
	BuildKind    BuildingKind

	Climbing      bool
	ClimbTimeLeft time.Duration
}

func (*Unit) isEntity() {}

// Idle 回到 idle，并清空所有只在行为期间有效的字段。
func (u *Unit) Idle() {
	u.State = StateIdle
	u.Destination = nil
	u.AttackTarget = nil
	u.GatherTarget = nil
	u.BuildSite = nil
	u.BuildKind = ""
	u.Climbing = false
	u.ClimbTimeLeft = 0
}

type Building struct {
	Base
	Kind BuildingKind
	Size float64

	Queue          []ItemKind
	Producing      bool
	ProductionLeft time.Duration
}

func (*Building) isEntity() {}

func (b *Building) Idle() {
	b.State = StateIdle
	b.Queue = nil
	b.Producing = false
	b.ProductionLeft = 0
}

type ResourceNode struct {
	ID       ResourceID   `json:"id"`
	Kind     ResourceKind `json:"kind"`
	Position Position     `json:"position"`
	Amount   int          `json:"amount"`
}
