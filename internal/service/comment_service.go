package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"plog/internal/model"
	"plog/internal/repository"
)

const (
	rootPageSize      = 10
	replyPageSize     = 5
	replyPreviewLimit = 5
	maxContentLength  = 1000
)

// Slice is a page of results carrying only a has-next flag. No total count:
// deriving one would cost an extra aggregate query per page.
type Slice[T any] struct {
	Content []T  `json:"content"`
	HasNext bool `json:"has_next"`
}

// ReplyView is the read model for one reply, with the author fields the
// client renders resolved up front instead of through lazy navigation.
type ReplyView struct {
	ID               string    `json:"id"`
	PostID           string    `json:"post_id"`
	ParentID         string    `json:"parent_id"`
	Content          string    `json:"content"`
	AuthorID         string    `json:"author_id"`
	AuthorNickname   string    `json:"author_nickname"`
	AuthorProfileURL *string   `json:"author_profile_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CommentView is the read model for one root comment: its own fields plus
// the non-deleted reply count and a capped preview of its oldest replies.
type CommentView struct {
	ID               string           `json:"id"`
	PostID           string           `json:"post_id"`
	Content          string           `json:"content"`
	Deleted          bool             `json:"deleted"`
	AuthorID         string           `json:"author_id"`
	AuthorNickname   string           `json:"author_nickname"`
	AuthorProfileURL *string          `json:"author_profile_url,omitempty"`
	ReplyCount       int64            `json:"reply_count"`
	Replies          Slice[ReplyView] `json:"replies"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CommentService interface {
	CreateComment(ctx context.Context, authorID, postID, content string, parentID *string) (string, error)
	GetCommentsByPost(ctx context.Context, postID string, page int) (Slice[CommentView], error)
	GetRepliesByComment(ctx context.Context, commentID string, page int) (Slice[ReplyView], error)
	UpdateComment(ctx context.Context, commentID, content string) error
	DeleteComment(ctx context.Context, commentID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	memberRepo  repository.MemberRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	memberRepo repository.MemberRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		memberRepo:  memberRepo,
	}
}

// CreateComment inserts a new comment after checking that the post exists
// and, for replies, that the parent is an addressable comment of the same
// post. Soft-deleted parents are valid reply targets: their id stays
// anchored precisely so the subtree remains navigable.
func (s *commentService) CreateComment(ctx context.Context, authorID, postID, content string, parentID *string) (string, error) {
	if err := validateContent(content); err != nil {
		return "", err
	}

	exists, err := s.postRepo.ExistsByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrPostNotFound
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}

	if parentID == nil || *parentID == "" {
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return "", err
		}
		return comment.ID, nil
	}

	// Reply path: lock the parent inside one transaction so the insert
	// cannot interleave with the parent's delete branch choice.
	comment.ParentID = parentID
	err = s.commentRepo.InTx(ctx, func(tx repository.CommentRepository) error {
		parent, err := tx.FindByIDForUpdate(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrParentCommentNotFound
			}
			return err
		}
		if parent.PostID != postID {
			return ErrParentPostMismatch
		}
		return tx.Create(ctx, comment)
	})
	if err != nil {
		return "", err
	}
	return comment.ID, nil
}

// GetCommentsByPost returns one page of root comments, newest first, each
// carrying its reply count and a preview of up to five oldest replies.
//
// The page is assembled from a constant number of store round trips no
// matter how many roots it holds: one root query, one grouped reply count,
// one batched preview query and one batched member lookup.
func (s *commentService) GetCommentsByPost(ctx context.Context, postID string, page int) (Slice[CommentView], error) {
	if page < 0 {
		page = 0
	}

	exists, err := s.postRepo.ExistsByID(ctx, postID)
	if err != nil {
		return Slice[CommentView]{}, err
	}
	if !exists {
		return Slice[CommentView]{}, ErrPostNotFound
	}

	// Fetch one row beyond the page to learn whether a next page exists
	roots, err := s.commentRepo.FindRootsByPostID(ctx, postID, rootPageSize+1, page*rootPageSize)
	if err != nil {
		return Slice[CommentView]{}, err
	}
	hasNext := len(roots) > rootPageSize
	if hasNext {
		roots = roots[:rootPageSize]
	}
	if len(roots) == 0 {
		return Slice[CommentView]{Content: []CommentView{}, HasNext: false}, nil
	}

	rootIDs := make([]string, len(roots))
	for i, root := range roots {
		rootIDs[i] = root.ID
	}

	replyCounts, err := s.commentRepo.CountRepliesByParentIDs(ctx, rootIDs)
	if err != nil {
		return Slice[CommentView]{}, err
	}

	// One extra reply per parent resolves each preview's own hasNext
	previews, err := s.commentRepo.FindReplyPreviews(ctx, rootIDs, replyPreviewLimit+1)
	if err != nil {
		return Slice[CommentView]{}, err
	}

	authors, err := s.loadAuthors(ctx, roots, previews)
	if err != nil {
		return Slice[CommentView]{}, err
	}

	views := make([]CommentView, 0, len(roots))
	for _, root := range roots {
		preview := previews[root.ID]
		previewHasNext := len(preview) > replyPreviewLimit
		if previewHasNext {
			preview = preview[:replyPreviewLimit]
		}

		replies := make([]ReplyView, 0, len(preview))
		for _, reply := range preview {
			replies = append(replies, s.toReplyView(reply, authors))
		}

		view := CommentView{
			ID:         root.ID,
			PostID:     root.PostID,
			Content:    root.VisibleContent(),
			Deleted:    root.Deleted,
			AuthorID:   root.AuthorID,
			ReplyCount: replyCounts[root.ID],
			Replies:    Slice[ReplyView]{Content: replies, HasNext: previewHasNext},
			CreatedAt:  root.CreatedAt,
			UpdatedAt:  root.UpdatedAt,
		}
		if author, ok := authors[root.AuthorID]; ok {
			view.AuthorNickname = author.Nickname
			view.AuthorProfileURL = author.ProfileImageURL
		}
		views = append(views, view)
	}

	return Slice[CommentView]{Content: views, HasNext: hasNext}, nil
}

// GetRepliesByComment pages through the full reply list of one parent,
// oldest first, for callers that want more than the inline preview.
func (s *commentService) GetRepliesByComment(ctx context.Context, commentID string, page int) (Slice[ReplyView], error) {
	if page < 0 {
		page = 0
	}

	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Slice[ReplyView]{}, ErrCommentNotFound
		}
		return Slice[ReplyView]{}, err
	}

	replies, err := s.commentRepo.FindRepliesByParentID(ctx, commentID, replyPageSize+1, page*replyPageSize)
	if err != nil {
		return Slice[ReplyView]{}, err
	}
	hasNext := len(replies) > replyPageSize
	if hasNext {
		replies = replies[:replyPageSize]
	}

	authors, err := s.loadAuthors(ctx, replies, nil)
	if err != nil {
		return Slice[ReplyView]{}, err
	}

	views := make([]ReplyView, 0, len(replies))
	for _, reply := range replies {
		views = append(views, s.toReplyView(reply, authors))
	}
	return Slice[ReplyView]{Content: views, HasNext: hasNext}, nil
}

// UpdateComment writes the new content unconditionally once the comment is
// found. Soft-deleted comments are not special-cased here; readers see the
// placeholder regardless.
func (s *commentService) UpdateComment(ctx context.Context, commentID, content string) error {
	if err := validateContent(content); err != nil {
		return err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	comment.Content = content
	return s.commentRepo.Update(ctx, comment)
}

// DeleteComment runs the two-branch delete state machine in one transaction:
// a comment that still anchors replies (deleted or not) is soft-deleted so
// the subtree stays intact; a childless comment is removed outright. Calling
// it on an already soft-deleted comment is a no-op.
//
// The row lock taken here pairs with the one in CreateComment: a reply can
// never slip in between the children check and a hard delete.
func (s *commentService) DeleteComment(ctx context.Context, commentID string) error {
	return s.commentRepo.InTx(ctx, func(tx repository.CommentRepository) error {
		comment, err := tx.FindByIDForUpdate(ctx, commentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		if comment.Deleted {
			return nil
		}

		hasReplies, err := tx.HasReplies(ctx, comment.ID)
		if err != nil {
			return err
		}

		if hasReplies {
			comment.SoftDelete()
			return tx.Update(ctx, comment)
		}
		return tx.HardDelete(ctx, comment.ID)
	})
}

// loadAuthors gathers every distinct author id of the given comments and
// preview groups and resolves them in a single batched query.
func (s *commentService) loadAuthors(ctx context.Context, comments []*model.Comment, previews map[string][]*model.Comment) (map[string]*model.Member, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(comments))
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, c := range comments {
		add(c.AuthorID)
	}
	for _, group := range previews {
		for _, c := range group {
			add(c.AuthorID)
		}
	}

	return s.memberRepo.FindByIDs(ctx, ids)
}

func (s *commentService) toReplyView(reply *model.Comment, authors map[string]*model.Member) ReplyView {
	view := ReplyView{
		ID:        reply.ID,
		PostID:    reply.PostID,
		Content:   reply.VisibleContent(),
		AuthorID:  reply.AuthorID,
		CreatedAt: reply.CreatedAt,
		UpdatedAt: reply.UpdatedAt,
	}
	if reply.ParentID != nil {
		view.ParentID = *reply.ParentID
	}
	if author, ok := authors[reply.AuthorID]; ok {
		view.AuthorNickname = author.Nickname
		view.AuthorProfileURL = author.ProfileImageURL
	}
	return view
}

func validateContent(content string) error {
	if content == "" {
		return ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return ErrContentTooLong
	}
	return nil
}
