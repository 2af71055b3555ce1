package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/bizsuite/taxkit/internal/config"
	"github.com/bizsuite/taxkit/internal/orgcontext"
)

const orgHeader = "X-Org-ID"

// OrgMiddleware resolves the tenant from the request header, falling
// back to the configured default org for single-tenant deployments.
func OrgMiddleware(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(orgHeader))

		var orgID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid org id"))
				return
			}
			orgID = parsed
		} else if cfg.DefaultOrgID != 0 {
			orgID = snowflake.ID(cfg.DefaultOrgID)
		}

		if orgID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Request = c.Request.WithContext(orgcontext.WithOrgID(c.Request.Context(), orgID))
		c.Next()
	}
}
