package repository

import (
	"context"

	"plog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository is the comment store. It exposes exactly the query
// shapes the comment service needs: a root page for a post, batched reply
// previews and reply counts for a set of parents, a per-parent reply page,
// and an existence check for children.
//
// It deliberately takes no cache client: reply counts and previews must
// always reflect the latest committed deletes, so every read goes to the
// database.
type CommentRepository interface {
	// InTx runs fn against a repository bound to one database transaction.
	// Used by the delete path to make its check-then-act atomic.
	InTx(ctx context.Context, fn func(CommentRepository) error) error

	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	// FindByIDForUpdate loads a comment under a row-level write lock. Only
	// meaningful inside InTx; replies racing the delete branch serialize on
	// this lock.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Comment, error)
	HasReplies(ctx context.Context, parentID string) (bool, error)
	// FindRootsByPostID returns root comments newest first. Soft-deleted
	// roots are included: they still anchor visible reply subtrees.
	FindRootsByPostID(ctx context.Context, postID string, limit, offset int) ([]*model.Comment, error)
	// FindRepliesByParentID returns non-deleted direct replies oldest first.
	FindRepliesByParentID(ctx context.Context, parentID string, limit, offset int) ([]*model.Comment, error)
	// FindReplyPreviews returns up to perParent oldest non-deleted replies
	// for every parent id, grouped by parent, in one round trip.
	FindReplyPreviews(ctx context.Context, parentIDs []string, perParent int) (map[string][]*model.Comment, error)
	// CountRepliesByParentIDs returns the non-deleted direct reply count per
	// parent in one round trip. Parents without replies map to zero.
	CountRepliesByParentIDs(ctx context.Context, parentIDs []string) (map[string]int64, error)
	Update(ctx context.Context, comment *model.Comment) error
	HardDelete(ctx context.Context, id string) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) InTx(ctx context.Context, fn func(CommentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&commentRepository{db: tx})
	})
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) HasReplies(ctx context.Context, parentID string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM comments WHERE parent_id = ?)", parentID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *commentRepository) FindRootsByPostID(ctx context.Context, postID string, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindRepliesByParentID(ctx context.Context, parentID string, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND deleted = false", parentID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

type previewRow struct {
	model.Comment `gorm:"embedded"`
	Rn            int `gorm:"column:rn"`
}

// FindReplyPreviews ranks replies per parent with a window function so the
// whole batch is one query, however many parents the page holds.
func (r *commentRepository) FindReplyPreviews(ctx context.Context, parentIDs []string, perParent int) (map[string][]*model.Comment, error) {
	grouped := make(map[string][]*model.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return grouped, nil
	}

	var rows []previewRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT c.*, ROW_NUMBER() OVER (PARTITION BY c.parent_id ORDER BY c.created_at ASC, c.id ASC) AS rn
			FROM comments c
			WHERE c.parent_id IN ? AND c.deleted = false
		) ranked
		WHERE rn <= ?
		ORDER BY parent_id, rn`, parentIDs, perParent).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		comment := rows[i].Comment
		grouped[*comment.ParentID] = append(grouped[*comment.ParentID], &comment)
	}
	return grouped, nil
}

func (r *commentRepository) CountRepliesByParentIDs(ctx context.Context, parentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(parentIDs))
	for _, id := range parentIDs {
		counts[id] = 0
	}
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var results []struct {
		ParentID string
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("parent_id, count(*) as count").
		Where("parent_id IN ? AND deleted = false", parentIDs).
		Group("parent_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	for _, row := range results {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}
