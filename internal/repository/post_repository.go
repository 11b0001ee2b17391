package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgram/internal/model"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	post.TitleLower = strings.ToLower(post.Title)
	comments := post.Comments
	post.Comments = nil
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err)
	}
	post.Comments = lo.Ternary(comments == nil, []model.Comment{}, comments)
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.query(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.loadLikes(ctx, []*model.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete 连同点赞、评论、收藏一并删除
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.PostLike{}, &model.PostSave{}, &model.Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) UpdateTitle(ctx context.Context, id, title string) error {
	res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "title_lower": strings.ToLower(title)})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	return r.find(ctx, r.query(ctx))
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.find(ctx, r.query(ctx).Where("user_id = ?", userID))
}

// SearchTitle 大小写不敏感的子串匹配，查询串按字面量处理。
// 两侧都用 strings.ToLower 折叠，不依赖数据库 LOWER 对非 ASCII 字符的支持
func (r *postRepository) SearchTitle(ctx context.Context, query string) ([]*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.find(ctx, r.query(ctx).Where("title_lower LIKE ? ESCAPE '!'", pattern))
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &model.PostLike{ID: uuid.New().String(), PostID: postID, UserID: userID}
		if err := tx.Create(like).Error; err != nil {
			return translate(err)
		}
		return touch(tx, postID)
	})
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touch(tx, postID)
	})
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.PostID = postID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return translate(err)
		}
		return touch(tx, postID)
	})
}

func (r *postRepository) AddSave(ctx context.Context, postID, userID string) error {
	save := &model.PostSave{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return translate(r.db.WithContext(ctx).Create(save).Error)
}

func (r *postRepository) RemoveSave(ctx context.Context, postID, userID string) error {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostSave{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) IsSaved(ctx context.Context, postID, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.PostSave{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *postRepository) ListSaved(ctx context.Context, userID string) ([]*model.Post, error) {
	sub := r.db.Model(&model.PostSave{}).Select("post_id").Where("user_id = ?", userID)
	return r.find(ctx, r.query(ctx).Where("id IN (?)", sub))
}

// query 预加载按时间正序的评论
func (r *postRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *postRepository) find(ctx context.Context, q *gorm.DB) ([]*model.Post, error) {
	var posts []*model.Post
	if err := q.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	if err := r.loadLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) loadLikes(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := lo.Map(posts, func(p *model.Post, _ int) string { return p.ID })
	var likes []*model.PostLike
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Order("created_at").Find(&likes).Error; err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	byPost := lo.GroupBy(likes, func(l *model.PostLike) string { return l.PostID })
	for _, p := range posts {
		p.Likes = lo.Map(byPost[p.ID], func(l *model.PostLike, _ int) string { return l.UserID })
		if p.Comments == nil {
			p.Comments = []model.Comment{}
		}
	}
	return nil
}

func touch(tx *gorm.DB, postID string) error {
	res := tx.Model(&model.Post{}).Where("id = ?", postID).UpdateColumn("updated_at", time.Now().UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }
