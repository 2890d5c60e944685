package entity

// Cost 建造或训练的资源消耗。
type Cost struct {
	Wood  int `json:"wood,omitempty" mapstructure:"wood"`
	Stone int `json:"stone,omitempty" mapstructure:"stone"`
	Iron  int `json:"iron,omitempty" mapstructure:"iron"`
}

// Stock 玩家持有的资源，所有字段始终 >= 0。
type Stock struct {
	Wood    int `json:"wood" mapstructure:"wood"`
	Stone   int `json:"stone" mapstructure:"stone"`
	Iron    int `json:"iron" mapstructure:"iron"`
	Ladders int `json:"ladders" mapstructure:"ladders"`
}

func (s Stock) Covers(c Cost) bool {
	return s.Wood >= c.Wood && s.Stone >= c.Stone && s.Iron >= c.Iron
}

// Spend 调用方必须先用 Covers 检查。
func (s *Stock) Spend(c Cost) {
	s.Wood -= c.Wood
	s.Stone -= c.Stone
	s.Iron -= c.Iron
}

type Player struct {
	ID         PlayerID
	Name       string
	Color      Color
	Resources  Stock
	Population int
	Researched map[string]struct{}
}

func NewPlayer(id PlayerID, name string, color Color, start Stock) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Color:      color,
		Resources:  start,
		Researched: make(map[string]struct{}),
	}
}

// Credit 按采集者类型入账：lumberjack→wood，miner→stone。
func (p *Player) Credit(kind UnitKind, n int) {
	switch kind {
	case UnitLumberjack:
		p.Resources.Wood += n
	case UnitMiner:
		p.Resources.Stone += n
	}
}
