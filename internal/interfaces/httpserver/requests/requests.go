package requests

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// LimitQuery binds an optional ?limit= parameter.
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=365"`
}
