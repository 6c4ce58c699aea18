package handler

import (
	"net/http"
	"time"

	"umkm-terminal/internal/adapter/http/dto"
	"umkm-terminal/internal/adapter/http/middleware"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionHandler handles Mini-App login and logout.
type SessionHandler struct {
	authSvc  ports.AuthService
	sessions ports.SessionService
	cookie   CookieConfig
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(authSvc ports.AuthService, sessions ports.SessionService, cookie CookieConfig) *SessionHandler {
	return &SessionHandler{authSvc: authSvc, sessions: sessions, cookie: cookie}
}

// Create handles POST /api/v1/session.
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, session, err := h.authSvc.Login(c.Request.Context(), req.InitData)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.sessions.Encode(session)
	if err != nil {
		response.Error(c, apperror.ErrEncryptionFailure(err))
		return
	}

	// The Mini-App runs inside Telegram's iframe, so the cookie must be
	// SameSite=None, which browsers only accept together with Secure.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteNoneMode,
	})

	c.Set(middleware.CtxUserID, user.ID)
	response.OK(c, dto.SessionResponse{
		User:      dto.NewUserResponse(user),
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// Delete handles DELETE /api/v1/session.
func (h *SessionHandler) Delete(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteNoneMode,
	})
	response.OK(c, gin.H{"logged_out": true})
}

// Me handles GET /api/v1/me.
func (h *SessionHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession())
		return
	}
	response.OK(c, dto.MeResponse{
		UserID:         session.UserID.String(),
		TelegramUserID: session.TelegramUserID,
		Address:        checksum(session.Address),
		ExpiresAt:      session.ExpiresAt.Unix(),
	})
}
