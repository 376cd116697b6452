package models

// ==================== Pricing DTOs ====================

// QuoteRequest is the request for POST /api/v1/pricing/quote
type QuoteRequest struct {
	Plan      string `json:"plan" binding:"required"`
	Duration  int    `json:"duration" binding:"required"`
	IsStudent bool   `json:"is_student"`
}

// ==================== Wizard DTOs ====================

// SelectPlanRequest is the request for PUT /api/v1/signup/:id/plan
type SelectPlanRequest struct {
	Plan      string `json:"plan"`
	Duration  int    `json:"duration"`
	IsStudent *bool  `json:"is_student"`
}

// PersonalInfoRequest is the request for PUT /api/v1/signup/:id/personal
type PersonalInfoRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	TelegramHandle string `json:"telegram_handle"`
	Country        string `json:"country"`
}

// SelectFormatRequest is the request for PUT /api/v1/signup/:id/format
type SelectFormatRequest struct {
	Format string `json:"format" binding:"required"`
}

// GotoStepRequest is the request for POST /api/v1/signup/:id/goto
type GotoStepRequest struct {
	Step int `json:"step" binding:"required"`
}

// ==================== Session DTOs ====================

// LoginRequest is the request for POST /api/v1/login
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// SessionResponse is returned after a successful submit or login.
type SessionResponse struct {
	Token   string               `json:"token"`
	Profile *SubscriptionProfile `json:"profile"`
}

// StatusResponse is returned by GET /api/v1/my/status
type StatusResponse struct {
	ApprovalStatus string `json:"approval_status"`
}

// ==================== Telegram webhook DTOs ====================

// TelegramUpdate is the subset of the Bot API update we care about.
type TelegramUpdate struct {
	UpdateID        int64            `json:"update_id"`
	ChatJoinRequest *ChatJoinRequest `json:"chat_join_request,omitempty"`
}

// ChatJoinRequest is a pending join request on a gated channel.
type ChatJoinRequest struct {
	Chat TelegramChat `json:"chat"`
	From TelegramUser `json:"from"`
}

// TelegramChat identifies the channel the request targets.
type TelegramChat struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// TelegramUser identifies the requesting user.
type TelegramUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}
