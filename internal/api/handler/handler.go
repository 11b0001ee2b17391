package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"

	"github.com/d60-Lab/socialgram/internal/api/middleware"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	userService    service.UserService
	relService     service.RelationshipService
	postService    service.PostService
	maxUploadBytes int64
}

func New(users service.UserService, relations service.RelationshipService, posts service.PostService, maxUploadMB int64) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 5
	}
	return &Handler{
		userService:    users,
		relService:     relations,
		postService:    posts,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// fail 业务错误按类别映射状态码，其余按 500 处理
func fail(c *gin.Context, err error) {
	var e *service.Error
	if !errors.As(err, &e) {
		response.InternalError(c, err)
		return
	}
	switch e.Kind {
	case service.KindUnauthenticated:
		response.Unauthorized(c, e.Message)
	case service.KindNotFound:
		response.NotFound(c, e.Message)
	default:
		response.Unprocessable(c, e.Message)
	}
}

func currentUser(c *gin.Context) (*model.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, service.ErrUnauthenticated.Message)
	}
	return u, ok
}

// bind 绑定请求体，校验失败时直接写出 422
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		response.Unprocessable(c, validationMessages(err)...)
		return false
	}
	return true
}

const invalidPayload = "Dados inválidos."

// messages 按 "<字段>.<规则>" 给出校验提示
var messages = map[string]string{
	"name.required":     "O nome é obrigatório.",
	"name.notblank":     "O nome é obrigatório.",
	"name.min":          "O nome precisa ter no mínimo 3 caracteres.",
	"email.required":    "O e-mail é obrigatório.",
	"email.email":       "Insira um e-mail válido.",
	"password.required": "A senha é obrigatória.",
	"password.min":      "A senha precisa ter no mínimo 5 caracteres.",
	"comment.required":  service.ErrCommentRequired.Message,
	"comment.notblank":  service.ErrCommentRequired.Message,
}

func validationMessages(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{invalidPayload}
	}
	out := lo.Map(errs, func(fe validator.FieldError, _ int) string {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		return fmt.Sprintf("Campo %s inválido.", fe.Field())
	})
	return lo.Uniq(out)
}

var registerOnce sync.Once

// RegisterValidators 注册 notblank 规则，并让错误字段名取 json/form 标签
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// upload 读取可选的上传文件；字段缺失时返回 nil
func (h *Handler) upload(c *gin.Context, field string) (*service.Upload, func(), bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, true
		}
		response.Unprocessable(c, invalidPayload)
		return nil, nil, false
	}
	if fh.Size > h.maxUploadBytes {
		response.Unprocessable(c, fmt.Sprintf("A imagem deve ter no máximo %d MB.", h.maxUploadBytes>>20))
		return nil, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, fmt.Errorf("open upload: %w", err))
		return nil, nil, false
	}
	return &service.Upload{Filename: fh.Filename, Body: f}, closer(f), true
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
