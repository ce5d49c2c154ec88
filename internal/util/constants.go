package util

// 请求头与上下文键
const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
)
