package handler

import (
	"net/http"
	"strings"
	"time"

	"event-organizer/internal/model"
	"event-organizer/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AccountHeader = "X-Account"
	accountKey    = "account"
)

// RequestLogger 記錄每個請求的方法、路徑、狀態碼與耗時
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RequireAccount 從 X-Account 取出呼叫者，缺少時回 401
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := strings.TrimSpace(c.GetHeader(AccountHeader))
		if account == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing " + AccountHeader + " header",
			})
			return
		}
		c.Set(accountKey, model.Account(account))
		c.Next()
	}
}

func callerFrom(c *gin.Context) model.Account {
	if v, ok := c.Get(accountKey); ok {
		if account, ok := v.(model.Account); ok {
			return account
		}
	}
	return ""
}
