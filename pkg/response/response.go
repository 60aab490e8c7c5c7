package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Context keys shared with the request middleware.
const (
	CtxRequestIDKey   = "request_id"
	CtxRequestTimeKey = "request_time"
)

type APIResponse[T any] struct {
	Status      string     `json:"status"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	RequestID   string     `json:"requestId,omitempty"`
	Token       string     `json:"token,omitempty"`
	Results     *int       `json:"results,omitempty"`
	Message     string     `json:"message,omitempty"`
	Data        T          `json:"data,omitempty"`
	Error       any        `json:"error,omitempty"`
}

// StatusText maps an HTTP code onto the envelope status: success for 2xx
// and 3xx, fail for 4xx, error for everything else.
func StatusText(code int) string {
	switch {
	case code < http.StatusBadRequest:
		return StatusSuccess
	case code < http.StatusInternalServerError:
		return StatusFail
	default:
		return StatusError
	}
}

func Success[T any](ctx *gin.Context, status int, data T) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    StatusSuccess,
		RequestID: ctx.GetString(CtxRequestIDKey),
		Data:      data,
	}
	ctx.JSON(status, resp)
	return resp
}

// List renders items under data[key] with a result count and the request time.
func List[T any](ctx *gin.Context, key string, items []T) APIResponse[gin.H] {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	resp := APIResponse[gin.H]{
		Status:    StatusSuccess,
		RequestID: ctx.GetString(CtxRequestIDKey),
		Results:   &n,
		Data:      gin.H{key: items},
	}
	if t := ctx.GetTime(CtxRequestTimeKey); !t.IsZero() {
		resp.RequestedAt = &t
	}
	ctx.JSON(http.StatusOK, resp)
	return resp
}

// WithToken renders a freshly issued access token next to its user.
func WithToken[T any](ctx *gin.Context, status int, token string, data T) APIResponse[T] {
	resp := APIResponse[T]{
		Status:    StatusSuccess,
		RequestID: ctx.GetString(CtxRequestIDKey),
		Token:     token,
		Data:      data,
	}
	ctx.JSON(status, resp)
	return resp
}

// Message renders a success envelope with only a message.
func Message(ctx *gin.Context, status int, message string) APIResponse[any] {
	resp := APIResponse[any]{
		Status:    StatusSuccess,
		RequestID: ctx.GetString(CtxRequestIDKey),
		Message:   message,
	}
	ctx.JSON(status, resp)
	return resp
}

func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    StatusText(status),
		RequestID: ctx.GetString(CtxRequestIDKey),
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}
