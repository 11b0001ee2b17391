package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/service"
)

type stubAuth struct{}

func (stubAuth) Verify(_ context.Context, token string) (*model.User, error) {
	switch token {
	case "good":
		return &model.User{ID: "u1"}, nil
	case "boom":
		return nil, errors.New("db down")
	}
	return nil, service.ErrUnauthenticated
}

func (stubAuth) IssueToken(string) (string, error) { return "", nil }

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, u.ID)
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth(stubAuth{}))

	w := do(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	for _, h := range []string{"", "good", "Bearer ", "Bearer bad", "Basic good"} {
		w := do(r, h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", h)
		assert.JSONEq(t, `{"errors":["Acesso negado!"]}`, w.Body.String())
	}

	assert.Equal(t, http.StatusInternalServerError, do(r, "Bearer boom").Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth(stubAuth{}))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	assert.Equal(t, "u1", do(r, "Bearer good").Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer bad").Code)
}
