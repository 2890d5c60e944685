package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 code 字段。0 成功；1~499 业务拒绝（access 日志 WARN）；>=500 系统错误（ERROR）。
const (
	OK           = 0
	InvalidParam = 1
	Unauthorized = 2
	NotFound     = 3
	Conflict     = 4
	SystemError  = 500
)
