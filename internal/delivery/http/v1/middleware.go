package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDCtxKey    = "user_id"
	userEmailCtxKey = "user_email"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	identity, err := h.auth.ParseAccessToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	// Ids are UUID columns; anything else could never match a row.
	if _, err = uuid.Parse(identity.UserID); err != nil {
		h.logger.Error().
			Err(err).
			Str("subject", identity.UserID).
			Msg("token subject is not a uuid")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	c.Set(userIDCtxKey, identity.UserID)
	c.Set(userEmailCtxKey, identity.Email)
	c.Next()
}

// userIDFromContext returns the id stored by HandleAuthMiddleware.
func userIDFromContext(c *gin.Context) string {
	return c.GetString(userIDCtxKey)
}

// parseIDParam reads a UUID path parameter. Malformed ids are treated as
// missing resources, so it aborts with notFoundMessage and returns false.
func (h *handlerImpl) parseIDParam(c *gin.Context, name, notFoundMessage string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(name, c.Param(name)).
			Msg("malformed id")
		abort(c, newNotFoundError(notFoundMessage))
		return "", false
	}
	return id.String(), true
}
