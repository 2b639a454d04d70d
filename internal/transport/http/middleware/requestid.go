package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID 贯穿请求头、响应头和 gin context 的同一个 key
const KeyRequestID = "X-Request-ID"

// RequestID 透传调用方带来的请求 id，没有就生成一个，保证每条
// 访问日志和错误日志都能对上号
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDFrom 取当前请求的 id；中间件没跑到时返回空串
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(KeyRequestID)
}
