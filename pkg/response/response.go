package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/pkg/logger"
)

// GenericError 对外暴露的通用错误文案，内部细节只写日志
const GenericError = "Houve um erro, por favor tente mais tarde."

// ErrorResponse 统一错误体
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// MessageResponse 仅包含提示信息的成功体
type MessageResponse struct {
	Message string `json:"message"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Error 以 {errors: [...]} 形式返回错误并终止后续中间件
func Error(c *gin.Context, status int, messages ...string) {
	if len(messages) == 0 {
		messages = []string{http.StatusText(status)}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Errors: messages})
}

func BadRequest(c *gin.Context, messages ...string) {
	Error(c, http.StatusBadRequest, messages...)
}

func Unauthorized(c *gin.Context, messages ...string) {
	Error(c, http.StatusUnauthorized, messages...)
}

func NotFound(c *gin.Context, messages ...string) {
	Error(c, http.StatusNotFound, messages...)
}

func Unprocessable(c *gin.Context, messages ...string) {
	Error(c, http.StatusUnprocessableEntity, messages...)
}

// InternalError 记录错误、上报 Sentry，并返回通用文案
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	Error(c, http.StatusInternalServerError, GenericError)
}
