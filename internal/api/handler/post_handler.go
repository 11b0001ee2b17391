package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/response"
)

type createPostRequest struct {
	Title string `form:"title" json:"title"`
}

type updatePostRequest struct {
	Title string `form:"title" json:"title"`
}

type commentRequest struct {
	Comment string `form:"comment" json:"comment" binding:"required,notblank"`
}

// CreatePost 发布帖子
// @Summary 发布帖子
// @Tags 帖子
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "描述"
// @Param image formData file true "图片（png/jpg）"
// @Success 201 {object} model.Post
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var req createPostRequest
	if !bind(c, &req) {
		return
	}
	image, done, ok := h.upload(c, "image")
	if !ok {
		return
	}
	defer done()

	p, err := h.postService.Create(c.Request.Context(), actor, service.CreatePostInput{Title: req.Title, Image: image})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, p)
}

// DeletePost 删除自己的帖子
// @Summary 删除帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.postService.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "message": "Postagem deletada com sucesso."})
}

// ListPosts 全部帖子，按创建时间倒序；登录可选
// @Summary 帖子列表
// @Tags 帖子
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// ListUserPosts 某用户的帖子
// @Summary 用户帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {array} model.Post
// @Router /posts/user/{id} [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	posts, err := h.postService.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// SearchPosts 标题搜索；q 为空时返回全部
// @Summary 搜索帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param q query string false "关键字"
// @Success 200 {array} model.Post
// @Router /posts/search [get]
func (h *Handler) SearchPosts(c *gin.Context) {
	posts, err := h.postService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost 按 ID 查询帖子
// @Summary 查询帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// UpdatePost 修改标题
// @Summary 修改帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body updatePostRequest true "新标题"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.postService.Update(c.Request.Context(), actor, c.Param("id"), req.Title)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": p, "message": "Post editado com sucesso."})
}

// LikePost 点赞
// @Summary 点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/like/{id} [put]
func (h *Handler) LikePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.postService.Like(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"postId": p.ID, "userId": actor.ID, "likes": p.Likes, "message": "Você curtiu o post!"})
}

// UnlikePost 取消点赞
// @Summary 取消点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/unlike/{id} [put]
func (h *Handler) UnlikePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.postService.Unlike(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"postId": p.ID, "userId": actor.ID, "likes": p.Likes, "message": "Você descurtiu o post."})
}

// CommentPost 评论
// @Summary 评论
// @Tags 互动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/comment/{id} [put]
func (h *Handler) CommentPost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	comment, err := h.postService.Comment(c.Request.Context(), actor, c.Param("id"), req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"comment": comment, "message": "Comentário adicionado!"})
}

// SavePost 收藏
// @Summary 收藏帖子
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/save/{id} [put]
func (h *Handler) SavePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.postService.Save(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"postId": id, "userId": actor.ID, "message": "Post salvo!"})
}

// UnsavePost 取消收藏
// @Summary 取消收藏
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /posts/unsave/{id} [put]
func (h *Handler) UnsavePost(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.postService.Unsave(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"postId": id, "userId": actor.ID, "message": "Post removido dos salvos."})
}

// ListSaved 当前用户收藏的帖子
// @Summary 收藏列表
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Router /posts/saved [get]
func (h *Handler) ListSaved(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	posts, err := h.postService.ListSaved(c.Request.Context(), actor)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}
