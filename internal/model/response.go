package model

// Envelope is the uniform response body. Form-flow failures keep HTTP 200 and
// report through ErrorCode; guard-protected flows use real HTTP statuses.
type Envelope struct {
	Message   string `json:"message"`
	Data      any    `json:"data"`
	ErrorCode string `json:"errorCode,omitempty"`
}

const (
	CodeAuthLocked         = "AUTH_LOCKED"
	CodeCaptchaInvalid     = "CAPTCHA_INVALID"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeSignupDisabled     = "SIGNUP_DISABLED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeCouponInvalid      = "COUPON_INVALID"
	CodeOrderStateInvalid  = "ORDER_STATE_INVALID"
	CodeCategoryInUse      = "CATEGORY_IN_USE"
	CodeServerError        = "SERVER_ERROR"
)

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}
