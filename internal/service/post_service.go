package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"plog/internal/model"
	"plog/internal/repository"
)

const postPageSize = 10

type PostService interface {
	CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (string, error)
	// GetPost returns the post detail with its first comment page embedded,
	// bumping the view count as a side effect.
	GetPost(ctx context.Context, id string) (*PostDetail, error)
	ListPosts(ctx context.Context, page int) (Slice[PostSummary], error)
	UpdatePost(ctx context.Context, memberID, id string, req UpdatePostRequest) error
	DeletePost(ctx context.Context, memberID, id string) error
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status" binding:"omitempty,oneof=draft published"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status" binding:"omitempty,oneof=draft published"`
}

type PostSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	AuthorID       string    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	ViewCount      int64     `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type PostDetail struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	Status         string             `json:"status"`
	AuthorID       string             `json:"author_id"`
	AuthorNickname string             `json:"author_nickname"`
	ViewCount      int64              `json:"view_count"`
	Comments       Slice[CommentView] `json:"comments"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type postService struct {
	postRepo       repository.PostRepository
	memberRepo     repository.MemberRepository
	commentService CommentService
}

func NewPostService(
	postRepo repository.PostRepository,
	memberRepo repository.MemberRepository,
	commentService CommentService,
) PostService {
	return &postService{
		postRepo:       postRepo,
		memberRepo:     memberRepo,
		commentService: commentService,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (string, error) {
	if _, err := s.memberRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}

	status := req.Status
	if status == "" {
		status = model.PostStatusPublished
	}

	post := &model.Post{
		AuthorID: authorID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Status:   status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return "", err
	}
	return post.ID, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*PostDetail, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	post.ViewCount++

	comments, err := s.commentService.GetCommentsByPost(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		Status:         post.Status,
		AuthorID:       post.AuthorID,
		AuthorNickname: post.Author.Nickname,
		ViewCount:      post.ViewCount,
		Comments:       comments,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}, nil
}

func (s *postService) ListPosts(ctx context.Context, page int) (Slice[PostSummary], error) {
	if page < 0 {
		page = 0
	}

	posts, err := s.postRepo.FindPublished(ctx, postPageSize+1, page*postPageSize)
	if err != nil {
		return Slice[PostSummary]{}, err
	}
	hasNext := len(posts) > postPageSize
	if hasNext {
		posts = posts[:postPageSize]
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, PostSummary{
			ID:             post.ID,
			Title:          post.Title,
			AuthorID:       post.AuthorID,
			AuthorNickname: post.Author.Nickname,
			ViewCount:      post.ViewCount,
			CreatedAt:      post.CreatedAt,
		})
	}
	return Slice[PostSummary]{Content: summaries, HasNext: hasNext}, nil
}

func (s *postService) UpdatePost(ctx context.Context, memberID, id string, req UpdatePostRequest) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != memberID {
		return ErrNotOwner
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	if req.Status != "" {
		post.Status = req.Status
	}
	return s.postRepo.Update(ctx, post)
}

func (s *postService) DeletePost(ctx context.Context, memberID, id string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != memberID {
		return ErrNotOwner
	}

	return s.postRepo.Delete(ctx, id)
}
