package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/praxislegal/praxis/internal/firmctx"
	obscontext "github.com/praxislegal/praxis/internal/observability/context"
)

const (
	HeaderFirm = "X-Firm-ID"
	HeaderUser = "X-User-ID"
)

// FirmContext resolves the active firm for the request. The header wins;
// single-tenant deployments fall back to DEFAULT_FIRM_ID.
func (s *Server) FirmContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		firmID, err := resolveFirmID(c.GetHeader(HeaderFirm), s.cfg.DefaultFirmID)
		if err != nil {
			AbortWithError(c, newValidationError("firm_id", "invalid_firm", "invalid firm id"))
			return
		}
		ctx = firmctx.WithFirmID(ctx, firmID.Int64())
		ctx = obscontext.WithFirmID(ctx, firmID.String())

		if raw := strings.TrimSpace(c.GetHeader(HeaderUser)); raw != "" {
			actorID, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("user_id", "invalid_user", "invalid user id"))
				return
			}
			ctx = firmctx.WithActorID(ctx, actorID.Int64())
			ctx = obscontext.WithActor(ctx, "user", actorID.String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveFirmID(header string, fallback int64) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return snowflake.ID(fallback), nil
	}
	return snowflake.ParseString(trimmed)
}
