package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plog/internal/model"
	"plog/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// ExistsByID is the post-existence check the comment service depends on.
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindPublished(ctx context.Context, limit, offset int) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postListCachePrefix = "post:list:"
	postCacheExpiration = 15 * time.Minute
)

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	r.invalidateListCache()
	return nil
}

// FindByID reads through the redis cache. Only the post row is cached;
// comments are always composed fresh by the service layer.
func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(postCachePrefix + id); err == nil {
			var post model.Post
			if err := json.Unmarshal([]byte(cached), &post); err == nil {
				return &post, nil
			}
		}
	}

	var post model.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, translate(err)
	}

	r.cachePost(&post)
	return &post, nil
}

func (r *postRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	// The cache counts as existence: only live posts are ever cached
	if r.redis != nil {
		if ok, err := r.redis.Exists(postCachePrefix + id); err == nil && ok {
			return true, nil
		}
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) FindPublished(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	cacheKey := fmt.Sprintf("%s%d:%d", postListCachePrefix, limit, offset)
	if r.redis != nil {
		if cached, err := r.redis.Get(cacheKey); err == nil {
			var posts []*model.Post
			if err := json.Unmarshal([]byte(cached), &posts); err == nil {
				return posts, nil
			}
		}
	}

	var posts []*model.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("status = ?", model.PostStatusPublished).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if postsJSON, err := json.Marshal(posts); err == nil {
			r.redis.Set(cacheKey, string(postsJSON), postCacheExpiration)
		}
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	r.invalidatePostCache(post.ID)
	r.invalidateListCache()
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidatePostCache(id)
	r.invalidateListCache()
	return nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return err
	}
	// Cached copy now holds a stale count
	r.invalidatePostCache(id)
	return nil
}

// Cache helpers
func (r *postRepository) cachePost(post *model.Post) {
	if r.redis == nil {
		return
	}
	postJSON, err := json.Marshal(post)
	if err != nil {
		return
	}
	r.redis.Set(postCachePrefix+post.ID, string(postJSON), postCacheExpiration)
}

func (r *postRepository) invalidatePostCache(id string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(postCachePrefix + id)
}

func (r *postRepository) invalidateListCache() {
	if r.redis == nil {
		return
	}
	r.redis.DeletePattern(postListCachePrefix + "*")
}
