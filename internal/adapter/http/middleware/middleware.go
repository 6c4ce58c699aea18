package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxSession    = "session"
	CtxUserID     = "user_id"
	CtxTelegramID = "telegram_user_id"
)

// RequestID propagates X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(response.CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// SessionAuth decodes the encrypted session cookie. A missing, tampered or
// expired cookie is rejected with AUTH_001.
func SessionAuth(sessions ports.SessionService, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Error(c, apperror.ErrNoSession())
			c.Abort()
			return
		}

		session, err := sessions.Decode(token)
		if err != nil {
			log.Error().Err(err).Msg("session decode failed")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if session == nil {
			response.Error(c, apperror.ErrNoSession())
			c.Abort()
			return
		}

		c.Set(CtxSession, session)
		c.Set(CtxUserID, session.UserID)
		c.Set(CtxTelegramID, session.TelegramUserID)
		c.Next()
	}
}

// SessionFrom returns the session stored by SessionAuth.
func SessionFrom(c *gin.Context) (*domain.EncryptedSession, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*domain.EncryptedSession)
	return s, ok && s != nil
}

// CronAuth requires "Authorization: Bearer <secret>". An empty secret
// rejects every request.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.Error(c, apperror.ErrInvalidCronSecret())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		if id, ok := c.Get(response.CtxRequestID); ok {
			event = event.Interface("request_id", id)
		}
		if tg, ok := c.Get(CtxTelegramID); ok {
			event = event.Interface("telegram_user_id", tg)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Error(c, apperror.New("SYS_000", "Internal server error", http.StatusInternalServerError))
				c.Abort()
			}
		}()
		c.Next()
	}
}
