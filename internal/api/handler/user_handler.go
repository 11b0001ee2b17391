package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/response"
)

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,notblank,min=3"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=5"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name" form:"name" binding:"omitempty,min=3"`
	Password string `json:"password" form:"password" binding:"omitempty,min=5"`
	Bio      string `json:"bio" form:"bio"`
}

// Register 注册并返回令牌
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} service.AuthResult
// @Failure 422 {object} response.ErrorResponse
// @Router /users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, res)
}

// Login 登录
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 201 {object} service.AuthResult
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, res)
}

// Profile 当前登录用户
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} response.ErrorResponse
// @Router /users/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	u, err := h.userService.Get(c.Request.Context(), actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// ListUsers 全部用户
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Router /users/allusers [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 按 ID 查询用户
// @Summary 查询用户
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// UpdateProfile 修改自己的资料，可附带头像
// @Summary 修改资料
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string false "名字"
// @Param password formData string false "新密码"
// @Param bio formData string false "简介"
// @Param profileImage formData file false "头像（png/jpg）"
// @Success 200 {object} model.User
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bind(c, &req) {
		return
	}
	image, done, ok := h.upload(c, "profileImage")
	if !ok {
		return
	}
	defer done()

	u, err := h.userService.UpdateProfile(c.Request.Context(), actor, service.UpdateProfileInput{
		Name:         req.Name,
		Password:     req.Password,
		Bio:          req.Bio,
		ProfileImage: image,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}
