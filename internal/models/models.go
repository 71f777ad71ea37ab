package models

// ErrorResponse is the error half of the gateway's response envelope. Every
// handler failure is rendered as this shape, never as a raw panic or a
// framework default page.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// SuccessResponse wraps a backend payload for the web client.
type SuccessResponse struct {
	Data   interface{} `json:"data"`
	Status int         `json:"status"`
}

// Localized user-facing messages. The web client renders these directly.
const (
	MsgAuthRequired       = "인증이 필요합니다."
	MsgInvalidBody        = "요청 본문이 올바르지 않습니다."
	MsgBackendUnreachable = "백엔드 서버에 연결할 수 없습니다."
	MsgBackendTimeout     = "백엔드 응답 시간이 초과되었습니다."
	MsgBackendDefault     = "요청 처리 중 오류가 발생했습니다."
	MsgUnknownProvider    = "지원하지 않는 OAuth 제공자입니다."
	MsgRateLimited        = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// Notification is the gateway-side view of one user notification.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// UnreadCount is the payload of the unread-count resource and of the
// WebSocket push stream.
type UnreadCount struct {
	Count int `json:"count"`
}
