package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/response"
)

const currentUserKey = "currentUser"

// Auth 要求携带有效的 Authorization: Bearer <token>
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, service.ErrUnauthenticated.Message)
			return
		}
		authenticate(c, auth, token)
	}
}

// OptionalAuth 未携带令牌时匿名放行；携带了但无效仍返回 401
func OptionalAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		authenticate(c, auth, token)
	}
}

// CurrentUser 取出鉴权中间件写入的用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}

func authenticate(c *gin.Context, auth service.AuthService, token string) {
	user, err := auth.Verify(c.Request.Context(), token)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthenticated {
			response.Unauthorized(c, service.ErrUnauthenticated.Message)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Set(currentUserKey, user)
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}
