package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"

	LocalTenantID = "tenantID"
	LocalUserID   = "userID"
)

// maxIdentifierLen bounds header values copied into the database.
const maxIdentifierLen = 128

// Tenant copies the optional tenant and user headers into the request locals.
// The identifiers are advisory labels for stored rows, not an authentication
// mechanism.
func Tenant(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v, ok := identifier(c.Get(HeaderTenantID)); ok {
			c.Locals(LocalTenantID, v)
		} else if c.Get(HeaderTenantID) != "" {
			logger.Warn("Ignoring oversized tenant header", zap.Int("length", len(c.Get(HeaderTenantID))))
		}
		if v, ok := identifier(c.Get(HeaderUserID)); ok {
			c.Locals(LocalUserID, v)
		}

		return c.Next()
	}
}

// TenantID returns the tenant header value stored by Tenant, or "".
func TenantID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalTenantID).(string)
	return v
}

// UserID returns the user header value stored by Tenant, or "".
func UserID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalUserID).(string)
	return v
}

func identifier(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || len(v) > maxIdentifierLen {
		return "", false
	}
	// fiber reuses header buffers after the handler returns.
	return strings.Clone(v), true
}
