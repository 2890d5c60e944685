package entity

import "time"

// MatchRecord 结束对局的归档记录。
type MatchRecord struct {
	SessionID SessionID
	Players   []RecordPlayer
	Winner    PlayerID
	Reason    string
	Ticks     uint64
	StartedAt time.Time
	EndedAt   time.Time
}

type RecordPlayer struct {
	ID         PlayerID
	Name       string
	Color      Color
	Resources  Stock
	Population int
}

// Record 按加入顺序生成归档记录。
func (g *GameState) Record() *MatchRecord {
	rec := &MatchRecord{
		SessionID: g.ID,
		Winner:    g.Winner,
		Reason:    g.EndReason,
		Ticks:     g.Tick,
		StartedAt: g.StartTime,
		EndedAt:   g.EndTime,
	}
	for _, pid := range g.JoinOrder {
		p := g.Players[pid]
		if p == nil {
			continue
		}
		rec.Players = append(rec.Players, RecordPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Resources:  p.Resources,
			Population: p.Population,
		})
	}
	return rec
}
