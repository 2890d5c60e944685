package model

import (
	"encoding/json"
	"time"

	"Warfront/internal/match/entity"
)

// MatchDoc mongodb 文档
type MatchDoc struct {
	SessionID string           `bson:"_id"`
	Players   []MatchPlayerDoc `bson:"players"`
	Winner    string           `bson:"winner,omitempty"`
	Reason    string           `bson:"reason"`
	Ticks     uint64           `bson:"ticks"`
	StartedAt time.Time        `bson:"started_at"`
	EndedAt   time.Time        `bson:"ended_at"`
}

type MatchPlayerDoc struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Color      string `bson:"color" json:"color"`
	Wood       int    `bson:"wood" json:"wood"`
	Stone      int    `bson:"stone" json:"stone"`
	Iron       int    `bson:"iron" json:"iron"`
	Ladders    int    `bson:"ladders" json:"ladders"`
	Population int    `bson:"population" json:"population"`
}

// Match mysql 表
type Match struct {
	SessionID string    `gorm:"column:session_id;type:varchar(64);primaryKey;not null;comment:对局id" json:"session_id"`
	Players   string    `gorm:"column:players;type:text;comment:双方结算 json" json:"players"`
	Winner    string    `gorm:"column:winner;type:varchar(64);comment:胜者id" json:"winner"`
	Reason    string    `gorm:"column:reason;type:varchar(32);not null;comment:结束原因" json:"reason"`
	Ticks     uint64    `gorm:"column:ticks;type:bigint UNSIGNED;not null;default:0;comment:tick 数" json:"ticks"`
	StartedAt time.Time `gorm:"column:started_at;type:timestamp NULL;comment:开局时间" json:"started_at"`
	EndedAt   time.Time `gorm:"column:ended_at;type:timestamp NULL;index;comment:结束时间" json:"ended_at"`
}

func (m *Match) TableName() string {
	return "match_record"
}

func playerDocs(in []entity.RecordPlayer) []MatchPlayerDoc {
	out := make([]MatchPlayerDoc, 0, len(in))
	for _, p := range in {
		out = append(out, MatchPlayerDoc{
			ID:         string(p.ID),
			Name:       p.Name,
			Color:      string(p.Color),
			Wood:       p.Resources.Wood,
			Stone:      p.Resources.Stone,
			Iron:       p.Resources.Iron,
			Ladders:    p.Resources.Ladders,
			Population: p.Population,
		})
	}
	return out
}

func recordPlayers(in []MatchPlayerDoc) []entity.RecordPlayer {
	out := make([]entity.RecordPlayer, 0, len(in))
	for _, p := range in {
		out = append(out, entity.RecordPlayer{
			ID:    entity.PlayerID(p.ID),
			Name:  p.Name,
			Color: entity.Color(p.Color),
			Resources: entity.Stock{
				Wood:    p.Wood,
				Stone:   p.Stone,
				Iron:    p.Iron,
				Ladders: p.Ladders,
			},
			Population: p.Population,
		})
	}
	return out
}

func RecordToDoc(rec *entity.MatchRecord) MatchDoc {
	return MatchDoc{
		SessionID: string(rec.SessionID),
		Players:   playerDocs(rec.Players),
		Winner:    string(rec.Winner),
		Reason:    rec.Reason,
		Ticks:     rec.Ticks,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.EndedAt,
	}
}

func DocToRecord(doc MatchDoc) *entity.MatchRecord {
	return &entity.MatchRecord{
		SessionID: entity.SessionID(doc.SessionID),
		Players:   recordPlayers(doc.Players),
		Winner:    entity.PlayerID(doc.Winner),
		Reason:    doc.Reason,
		Ticks:     doc.Ticks,
		StartedAt: doc.StartedAt,
		EndedAt:   doc.EndedAt,
	}
}

func RecordToRow(rec *entity.MatchRecord) (*Match, error) {
	players, err := json.Marshal(playerDocs(rec.Players))
	if err != nil {
		return nil, err
	}
	return &Match{
		SessionID: string(rec.SessionID),
		Players:   string(players),
		Winner:    string(rec.Winner),
		Reason:    rec.Reason,
		Ticks:     rec.Ticks,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.EndedAt,
	}, nil
}

func RowToRecord(m *Match) (*entity.MatchRecord, error) {
	var players []MatchPlayerDoc
	if m.Players != "" {
		if err := json.Unmarshal([]byte(m.Players), &players); err != nil {
			return nil, err
		}
	}
	return &entity.MatchRecord{
		SessionID: entity.SessionID(m.SessionID),
		Players:   recordPlayers(players),
		Winner:    entity.PlayerID(m.Winner),
		Reason:    m.Reason,
		Ticks:     m.Ticks,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}, nil
}
