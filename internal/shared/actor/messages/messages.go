package messages

// FailResp actor 处理失败时的统一回包。Err 保留原始错误，便于调用方 errors.Is。
type FailResp struct {
	Code    int
	Message string
	Err     error
}

// Ack 无返回值请求的成功回包。
type Ack struct{}
