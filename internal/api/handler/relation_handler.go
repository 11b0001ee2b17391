package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialgram/pkg/response"
)

// Follow 关注用户，同时写入双方的关注/粉丝集合
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被关注用户ID"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users/follow/{id} [put]
func (h *Handler) Follow(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.relService.Follow(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, response.MessageResponse{Message: "Usuário seguido com sucesso"})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被取消关注用户ID"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /users/unfollow/{id} [put]
func (h *Handler) Unfollow(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, response.MessageResponse{Message: "Usuário deixado de seguir com sucesso"})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID := c.Param("id")
	list, err := h.relService.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"userId": userID, "list": list})
}

// ListFans 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id}/followers [get]
func (h *Handler) ListFans(c *gin.Context) {
	userID := c.Param("id")
	list, err := h.relService.ListFans(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"userId": userID, "list": list})
}
