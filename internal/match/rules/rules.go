package rules

import (
	"time"

	"Warfront/internal/match/entity"
)

type UnitStats struct {
	HP     float64 `mapstructure:"hp"`
	Attack float64 `mapstructure:"attack"`
	Speed  float64 `mapstructure:"speed"`
	Range  float64 `mapstructure:"range"`
}

type BuildingStats struct {
	HP   float64 `mapstructure:"hp"`
	Size float64 `mapstructure:"size"`
}

// Tuning 模拟用到的全部常量，默认值见 Default。
type Tuning struct {
	MapWidth     float64
	MapHeight    float64
	TickInterval time.Duration

	NumClusters         int
	ResourcesPerCluster int
	ClusterRadius       float64
	NodeAmount          int

	GatherAmount int
	ReturnCredit int
	GatherReach  float64
	ReturnReach  float64
	BuildReach   float64
	ArriveSnap   float64

	SpeedMultiplier float64
	WallClearance   float64

	HubSiteTolerance float64

	LadderReach    float64
	ClimbDuration  time.Duration
	ClimbOvershoot float64
	MeleeSlack     float64
	DamageFactor   float64

	DefaultProductionTime time.Duration
	SpawnGap              float64
	MaxQueue              int

	StartingStock entity.Stock
	StartInset    float64
}

type Rules struct {
	Tuning
	Units           map[entity.UnitKind]UnitStats
	Buildings       map[entity.BuildingKind]BuildingStats
	BuildCosts      map[entity.BuildingKind]entity.Cost
	TrainCosts      map[entity.ItemKind]entity.Cost
	ProductionTimes map[entity.ItemKind]time.Duration
	Producers       map[entity.BuildingKind][]entity.ItemKind
}

func Default() *Rules {
	return &Rules{
		Tuning: Tuning{
			MapWidth:     2000,
			MapHeight:    2000,
			TickInterval: 100 * time.Millisecond,

			NumClusters:         8,
			ResourcesPerCluster: 6,
			ClusterRadius:       50,
			NodeAmount:          1000,

			GatherAmount: 10,
			ReturnCredit: 1,
			GatherReach:  30,
			ReturnReach:  50,
			BuildReach:   30,
			ArriveSnap:   5,

			SpeedMultiplier: 3,
			WallClearance:   10,

			HubSiteTolerance: 60,

			LadderReach:    40,
			ClimbDuration:  10 * time.Second,
			ClimbOvershoot: 40,
			MeleeSlack:     10,
			DamageFactor:   0.2,

			DefaultProductionTime: 5 * time.Second,
			SpawnGap:              20,
			MaxQueue:              10,

			StartingStock: entity.Stock{Wood: 100, Stone: 100},
			StartInset:    200,
		},
		Units: map[entity.UnitKind]UnitStats{
			entity.UnitLumberjack: {HP: 50, Attack: 5, Speed: 2, Range: 20},
			entity.UnitMiner:      {HP: 50, Attack: 5, Speed: 2, Range: 20},
			entity.UnitKnight:     {HP: 150, Attack: 20, Speed: 2.5, Range: 25},
			entity.UnitArcher:     {HP: 80, Attack: 15, Speed: 2, Range: 150},
			entity.UnitBuilder:    {HP: 60, Attack: 3, Speed: 2, Range: 20},
		},
		Buildings: map[entity.BuildingKind]BuildingStats{
			entity.BuildingHub:        {HP: 1000, Size: 80},
			entity.BuildingBarracks:   {HP: 500, Size: 60},
			entity.BuildingIronWorks:  {HP: 400, Size: 60},
			entity.BuildingFactory:    {HP: 400, Size: 60},
			entity.BuildingWall:       {HP: 300, Size: 40},
			entity.BuildingWatchtower: {HP: 300, Size: 40},
		},
		BuildCosts: map[entity.BuildingKind]entity.Cost{
			entity.BuildingBarracks:   {Wood: 100, Stone: 50},
			entity.BuildingIronWorks:  {Wood: 80, Stone: 100},
			entity.BuildingFactory:    {Wood: 150, Stone: 100},
			entity.BuildingWall:       {Stone: 20},
			entity.BuildingWatchtower: {Wood: 50, Stone: 50},
		},
		TrainCosts: map[entity.ItemKind]entity.Cost{
			entity.ItemKind(entity.UnitLumberjack): {Wood: 5},
			entity.ItemKind(entity.UnitMiner):      {Wood: 5, Stone: 2},
			entity.ItemKind(entity.UnitBuilder):    {Wood: 10, Stone: 5},
			entity.ItemKind(entity.UnitKnight):     {Wood: 20, Stone: 10, Iron: 5},
			entity.ItemKind(entity.UnitArcher):     {Wood: 25, Stone: 5, Iron: 2},
			entity.ItemIronIngot:                   {Stone: 10},
			entity.ItemLadder:                      {Wood: 15},
		},
		ProductionTimes: map[entity.ItemKind]time.Duration{
			entity.ItemKind(entity.UnitLumberjack): 3 * time.Second,
			entity.ItemKind(entity.UnitMiner):      3 * time.Second,
			entity.ItemKind(entity.UnitBuilder):    4 * time.Second,
			entity.ItemKind(entity.UnitKnight):     6 * time.Second,
			entity.ItemIronIngot:                   4 * time.Second,
			entity.ItemLadder:                      5 * time.Second,
		},
		Producers: map[entity.BuildingKind][]entity.ItemKind{
			entity.BuildingHub: {
				entity.ItemKind(entity.UnitLumberjack),
				entity.ItemKind(entity.UnitMiner),
				entity.ItemKind(entity.UnitBuilder),
			},
			entity.BuildingBarracks: {
				entity.ItemKind(entity.UnitKnight),
				entity.ItemKind(entity.UnitArcher),
			},
			entity.BuildingIronWorks: {entity.ItemIronIngot},
			entity.BuildingFactory:   {entity.ItemLadder},
		},
	}
}

// ProductionTime 未配置的条目使用默认时长。
func (r *Rules) ProductionTime(item entity.ItemKind) time.Duration {
	if d, ok := r.ProductionTimes[item]; ok && d > 0 {
		return d
	}
	return r.DefaultProductionTime
}

func (r *Rules) CanProduce(b entity.BuildingKind, item entity.ItemKind) bool {
	for _, v := range r.Producers[b] {
		if v == item {
			return true
		}
	}
	return false
}

// InBounds 位置是否在地图内。
func (r *Rules) InBounds(p entity.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= r.MapWidth && p.Y <= r.MapHeight
}

func (r *Rules) Clamp(p entity.Position) entity.Position {
	p.X = min(max(p.X, 0), r.MapWidth)
	p.Y = min(max(p.Y, 0), r.MapHeight)
	return p
}
