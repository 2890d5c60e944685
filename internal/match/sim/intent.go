package sim

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"Warfront/internal/match/entity"
)

const (
	TypeMove   = "action_move"
	TypeGather = "action_gather"
	TypeAttack = "action_attack"
	TypeBuild  = "action_build"
	TypeTrain  = "action_train"
)

// Intent 玩家提交的一条指令。
type Intent interface {
	Type() string
}

type Move struct {
	EntityIDs []entity.EntityID `json:"entityIds" mapstructure:"entityIds"`
	Target    *entity.Position  `json:"target" mapstructure:"target"`
}

type Gather struct {
	EntityIDs  []entity.EntityID  `json:"entityIds" mapstructure:"entityIds"`
	ResourceID *entity.ResourceID `json:"resourceId" mapstructure:"resourceId"`
}

type Attack struct {
	EntityIDs []entity.EntityID `json:"entityIds" mapstructure:"entityIds"`
	TargetID  *entity.EntityID  `json:"targetId" mapstructure:"targetId"`
}

type Build struct {
	BuilderID    *entity.EntityID    `json:"builderId" mapstructure:"builderId"`
	BuildingType entity.BuildingKind `json:"buildingType" mapstructure:"buildingType"`
	Position     *entity.Position    `json:"position" mapstructure:"position"`
}

type Train struct {
	BuildingID *entity.EntityID `json:"buildingId" mapstructure:"buildingId"`
	UnitType   entity.ItemKind  `json:"unitType" mapstructure:"unitType"`
}

func (Move) Type() string   { return TypeMove }
func (Gather) Type() string { return TypeGather }
func (Attack) Type() string { return TypeAttack }
func (Build) Type() string  { return TypeBuild }
func (Train) Type() string  { return TypeTrain }

// DecodeIntent 把 {type, payload} 消息解成具体指令。payload 一般是 json 解出来的 map，
// 数字是 float64、id 可能是字符串，统一走 WeaklyTypedInput。
func DecodeIntent(msgType string, payload any) (Intent, error) {
	var out Intent
	switch msgType {
	case TypeMove:
		var m Move
		if err := decodePayload(payload, &m); err != nil {
			return nil, err
		}
		out = m
	case TypeGather:
		var m Gather
		if err := decodePayload(payload, &m); err != nil {
			return nil, err
		}
		out = m
	case TypeAttack:
		var m Attack
		if err := decodePayload(payload, &m); err != nil {
			return nil, err
		}
		out = m
	case TypeBuild:
		var m Build
		if err := decodePayload(payload, &m); err != nil {
			return nil, err
		}
		out = m
	case TypeTrain:
		var m Train
		if err := decodePayload(payload, &m); err != nil {
			return nil, err
		}
		out = m
	default:
		return nil, ErrIntentRejected.WithReason(ReasonMalformed).WithData("type", msgType)
	}
	return out, nil
}

func decodePayload(payload any, dst any) error {
	if payload == nil {
		return reject(ReasonMalformed)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return ErrIntentRejected.WithCause(fmt.Errorf("new decoder: %w", err))
	}
	if err := dec.Decode(payload); err != nil {
		return ErrIntentRejected.WithReason(ReasonMalformed).WithCause(err)
	}
	return nil
}
