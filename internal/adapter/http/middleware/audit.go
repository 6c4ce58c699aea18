package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful state-changing requests. It runs after the
// handler so the outcome is known; the audit service persists in the
// background.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if v, exists := c.Get(CtxUserID); exists {
			if id, ok := v.(uuid.UUID); ok {
				userID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"path":   c.Request.URL.Path,
			"status": status,
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("address"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/session":
		return domain.AuditActionSessionCreate, "session"
	case "/api/v1/burners":
		return domain.AuditActionBurnerCreate, "burner"
	case "/api/v1/burners/:address/recover":
		return domain.AuditActionBurnerRecover, "burner"
	case "/api/v1/burners/recover":
		return domain.AuditActionRecoverOwner, "burner"
	case "/api/v1/cron/sweep":
		return domain.AuditActionSweepAll, "sweep"
	}
	return "", ""
}
