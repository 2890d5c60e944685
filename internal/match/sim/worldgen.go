package sim

import (
	"math"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/rules"
)

// clusterLayout 以地图宽高为单位的固定簇中心：前四个贴近双方出生角，其余关于中心对称。
var clusterLayout = [][2]float64{
	{0.22, 0.10}, {0.10, 0.22},
	{0.78, 0.90}, {0.90, 0.78},
	{0.30, 0.70}, {0.70, 0.30},
	{0.35, 0.35}, {0.65, 0.65},
}

// ClusterCenters 生成资源簇中心。结果只依赖规则参数，同样的参数得到同样的坐标。
func ClusterCenters(r *rules.Rules) []entity.Position {
	out := make([]entity.Position, 0, r.NumClusters)
	for i := 0; i < r.NumClusters; i++ {
		if i < len(clusterLayout) {
			f := clusterLayout[i]
			out = append(out, entity.Position{X: f[0] * r.MapWidth, Y: f[1] * r.MapHeight})
			continue
		}
		// 超出固定布局的部分均匀排在地图中心外圈
		angle := 2 * math.Pi * float64(i) / float64(r.NumClusters)
		out = append(out, r.Clamp(entity.Position{
			X: r.MapWidth/2 + math.Cos(angle)*r.MapWidth*0.25,
			Y: r.MapHeight/2 + math.Sin(angle)*r.MapHeight*0.25,
		}))
	}
	return out
}

// seedResources 每个簇中心一圈资源点，偶数簇为树，奇数簇为石头。
func (w *World) seedResources(centers []entity.Position) []*entity.ResourceNode {
	r := w.rules
	nodes := make([]*entity.ResourceNode, 0, len(centers)*r.ResourcesPerCluster)
	for i, c := range centers {
		kind := entity.ResourceTree
		if i%2 == 1 {
			kind = entity.ResourceRock
		}
		for j := 0; j < r.ResourcesPerCluster; j++ {
			angle := 2 * math.Pi * float64(j) / float64(r.ResourcesPerCluster)
			nodes = append(nodes, &entity.ResourceNode{
				ID:   entity.ResourceID(w.nextEntityID()),
				Kind: kind,
				Position: r.Clamp(entity.Position{
					X: c.X + math.Cos(angle)*r.ClusterRadius,
					Y: c.Y + math.Sin(angle)*r.ClusterRadius,
				}),
				Amount: r.NodeAmount,
			})
		}
	}
	return nodes
}

// nearestCluster 返回距离 p 小于 tolerance 的最近簇中心。
func (w *World) nearestCluster(p entity.Position, tolerance float64) (entity.Position, bool) {
	best := -1.0
	var found entity.Position
	for _, c := range w.state.ResourceClusters {
		d := p.DistanceTo(c)
		if d >= tolerance {
			continue
		}
		if best < 0 || d < best {
			best = d
			found = c
		}
	}
	return found, best >= 0
}
