package models

import (
	"time"

	"github.com/gin-gonic/gin"
)

type ApiResponse struct {
	Message         string       `json:"message"`
	Data            any          `json:"data,omitempty"`
	Error           bool         `json:"error,omitempty"`
	Meta            *Window      `json:"meta,omitempty"`
	Rate            *RateLimiter `json:"rate_limit,omitempty"`
	TabID           string       `json:"tab_id,omitempty"`
	RequestedEntity string       `json:"requested_entity,omitempty"`
}

// Window describes the revealed slice of the current result set.
type Window struct {
	Visible int  `json:"visible" example:"20"`
	Total   int  `json:"total" example:"140"`
	HasMore bool `json:"has_more" example:"true"`
}

type RateLimiter struct {
	Limit          int       `json:"limit"`
	Remaining      int       `json:"remaining"`
	ResetAt        time.Time `json:"reset_at"`
	ResetInSeconds int       `json:"reset_in_seconds"`
}

// helper to fetch rate limiter info from Gin context
func getRateFromContext(c *gin.Context) *RateLimiter {
	if c == nil {
		return nil
	}
	if rate, exists := c.Get("rateLimiter"); exists {
		if rl, ok := rate.(*RateLimiter); ok {
			return rl
		}
	}
	return nil
}

func getTabFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString("tabID")
}

func SuccessResponse(c *gin.Context, message string, data any) ApiResponse {
	return ApiResponse{
		Message:         message,
		Data:            data,
		Rate:            getRateFromContext(c),
		TabID:           getTabFromContext(c),
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func WindowedResponse(c *gin.Context, message string, data any, meta *Window) ApiResponse {
	return ApiResponse{
		Message:         message,
		Data:            data,
		Meta:            meta,
		Rate:            getRateFromContext(c),
		TabID:           getTabFromContext(c),
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func ErrorResponse(c *gin.Context, message string) ApiResponse {
	return ApiResponse{
		Message:         message,
		Error:           true,
		Rate:            getRateFromContext(c),
		TabID:           getTabFromContext(c),
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}
