package rules

import (
	"time"

	"Warfront/internal/shared/serverconfig"
)

// FromConfig 在默认规则上覆盖配置中的非零项。
func FromConfig(c serverconfig.SimConfig) *Rules {
	r := Default()
	if c.TickIntervalMs > 0 {
		r.TickInterval = time.Duration(c.TickIntervalMs) * time.Millisecond
	}
	if c.MapWidth > 0 {
		r.MapWidth = c.MapWidth
	}
	if c.MapHeight > 0 {
		r.MapHeight = c.MapHeight
	}
	if c.NumClusters > 0 {
		r.NumClusters = c.NumClusters
	}
	if c.ResourcesPerCluster > 0 {
		r.ResourcesPerCluster = c.ResourcesPerCluster
	}
	if c.NodeAmount > 0 {
		r.NodeAmount = c.NodeAmount
	}
	if c.GatherAmount > 0 {
		r.GatherAmount = c.GatherAmount
	}
	if c.ReturnCredit > 0 {
		r.ReturnCredit = c.ReturnCredit
	}
	if c.SpeedMultiplier > 0 {
		r.SpeedMultiplier = c.SpeedMultiplier
	}
	if c.DamageFactor > 0 {
		r.DamageFactor = c.DamageFactor
	}
	if c.ClimbDurationMs > 0 {
		r.ClimbDuration = time.Duration(c.ClimbDurationMs) * time.Millisecond
	}
	if c.DefaultProductionMs > 0 {
		r.DefaultProductionTime = time.Duration(c.DefaultProductionMs) * time.Millisecond
	}
	if c.MaxQueue > 0 {
		r.MaxQueue = c.MaxQueue
	}
	if c.StartingWood > 0 {
		r.StartingStock.Wood = c.StartingWood
	}
	if c.StartingStone > 0 {
		r.StartingStock.Stone = c.StartingStone
	}
	return r
}
