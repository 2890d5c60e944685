package dto

import (
	"time"

	"Warfront/internal/match/entity"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type CreateSessionResp struct {
	SessionID entity.SessionID `json:"sessionId"`
}

type ListSessionsResp struct {
	Sessions []entity.SessionID `json:"sessions"`
}

type JoinReq struct {
	Name string `json:"name" binding:"max=32"`
}

// JoinResp Token 用于 /ws?token= 建立玩家连接。
type JoinResp struct {
	SessionID entity.SessionID `json:"sessionId"`
	PlayerID  entity.PlayerID  `json:"playerId"`
	Color     entity.Color     `json:"color"`
	Status    entity.Status    `json:"status"`
	Token     string           `json:"token"`
}

type MatchPlayer struct {
	ID         entity.PlayerID `json:"id"`
	Name       string          `json:"name,omitempty"`
	Color      entity.Color    `json:"color"`
	Resources  entity.Stock    `json:"resources"`
	Population int             `json:"population"`
}

type Match struct {
	SessionID entity.SessionID `json:"sessionId"`
	Players   []MatchPlayer    `json:"players"`
	Winner    entity.PlayerID  `json:"winner,omitempty"`
	Reason    string           `json:"reason"`
	Ticks     uint64           `json:"ticks"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   time.Time        `json:"endedAt"`
}

func MatchFrom(rec *entity.MatchRecord) Match {
	m := Match{
		SessionID: rec.SessionID,
		Winner:    rec.Winner,
		Reason:    rec.Reason,
		Ticks:     rec.Ticks,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.EndedAt,
		Players:   make([]MatchPlayer, 0, len(rec.Players)),
	}
	for _, p := range rec.Players {
		m.Players = append(m.Players, MatchPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Resources:  p.Resources,
			Population: p.Population,
		})
	}
	return m
}
