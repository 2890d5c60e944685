package ws

// ReqBody 客户端上行帧：{seq, type, payload}。
type ReqBody struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RespBody 服务端下行帧；主动推送（快照）的 seq 为 0。
type RespBody struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Payload any    `json:"payload,omitempty"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

// WsMsgResp handler 把 Silent 置为 true 表示不回包（例如玩家指令）。
type WsMsgResp struct {
	Body   *RespBody
	Silent bool
}

type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	// Push 非阻塞投递，发送队列满时丢弃并返回 false
	Push(typ string, data any) bool
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
	ErrorMsg     = "error"

	ConnKeySession = "session_id"
	ConnKeyPlayer  = "player_id"
)
