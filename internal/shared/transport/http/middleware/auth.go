package middleware

import (
	"net/http"
	"strings"

	"VillageRaid/internal/shared/security"
	"VillageRaid/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const ctxKeyPlayerID = "player_id"

// Auth 校验 Authorization: Bearer <jwt>，通过后把玩家 id 放进 gin 上下文。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			reject(c)
			return
		}
		pid, err := security.ParsePlayerID(token)
		if err != nil {
			reject(c)
			return
		}
		c.Set(ctxKeyPlayerID, pid)
		transport.SetPlayerID(c.Request.Context(), pid)
		c.Next()
	}
}

// PlayerID 取 Auth 写入的玩家 id。
func PlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxKeyPlayerID)
	if !ok {
		return 0, false
	}
	pid, ok := v.(int64)
	return pid, ok
}

func reject(c *gin.Context) {
	transport.SetErrorReason(c.Request.Context(), "TOKEN_INVALID")
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"code": transport.TokenInvalid, "msg": "登录已失效"})
}
