package entity

import "math"

type SessionID string

type PlayerID string

// EntityID 在单个对局内唯一，单调递增分配。
type EntityID int64

type ResourceID int64

type Position struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Toward 返回从 p 朝 o 方向前进 step 后的位置；不会越过 o。
func (p Position) Toward(o Position, step float64) Position {
	d := p.DistanceTo(o)
	if d <= step || d == 0 {
		return o
	}
	return Position{
		X: p.X + (o.X-p.X)/d*step,
		Y: p.Y + (o.Y-p.Y)/d*step,
	}
}

type Color string

const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

type ResourceKind string

const (
	ResourceTree ResourceKind = "tree"
	ResourceRock ResourceKind = "rock"
)

type UnitKind string

const (
	UnitLumberjack UnitKind = "lumberjack"
	UnitMiner      UnitKind = "miner"
	UnitKnight     UnitKind = "knight"
	UnitArcher     UnitKind = "archer"
	UnitBuilder    UnitKind = "builder"
)

func (k UnitKind) CanGather() bool {
	return k == UnitLumberjack || k == UnitMiner
}

type BuildingKind string

const (
	BuildingHub        BuildingKind = "hub"
	BuildingBarracks   BuildingKind = "barracks"
	BuildingIronWorks  BuildingKind = "iron_works"
	BuildingFactory    BuildingKind = "factory"
	BuildingWall       BuildingKind = "wall"
	BuildingWatchtower BuildingKind = "watchtower"
)

// ItemKind 是生产队列里的条目：单位类型，或者 iron_ingot / ladder 两种特殊物品。
type ItemKind string

const (
	ItemIronIngot ItemKind = "iron_ingot"
	ItemLadder    ItemKind = "ladder"
)

// Unit 返回条目对应的单位类型；特殊物品返回 false。
func (k ItemKind) Unit() (UnitKind, bool) {
	switch u := UnitKind(k); u {
	case UnitLumberjack, UnitMiner, UnitKnight, UnitArcher, UnitBuilder:
		return u, true
	}
	return "", false
}

type BehaviorState string

const (
	StateIdle      BehaviorState = "idle"
	StateMoving    BehaviorState = "moving"
	StateAttacking BehaviorState = "attacking"
	StateGathering BehaviorState = "gathering"
	StateReturning BehaviorState = "returning"
	StateBuilding  BehaviorState = "building"
	StateProducing BehaviorState = "producing"
)
