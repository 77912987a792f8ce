package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"plog/internal/model"
)

type stubCommentService struct {
	getByPostFn func(ctx context.Context, postID string, page int) (Slice[CommentView], error)
}

func (s *stubCommentService) CreateComment(ctx context.Context, authorID, postID, content string, parentID *string) (string, error) {
	return "", nil
}
func (s *stubCommentService) GetCommentsByPost(ctx context.Context, postID string, page int) (Slice[CommentView], error) {
	if s.getByPostFn != nil {
		return s.getByPostFn(ctx, postID, page)
	}
	return Slice[CommentView]{Content: []CommentView{}}, nil
}
func (s *stubCommentService) GetRepliesByComment(ctx context.Context, commentID string, page int) (Slice[ReplyView], error) {
	return Slice[ReplyView]{}, nil
}
func (s *stubCommentService) UpdateComment(ctx context.Context, commentID, content string) error {
	return nil
}
func (s *stubCommentService) DeleteComment(ctx context.Context, commentID string) error {
	return nil
}

/*
	CREATE POST
*/

func TestCreatePost_DefaultsToPublished(t *testing.T) {
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{ID: id, Nickname: "author"}, nil
		},
	}
	postRepo := &mockPostRepo{
		createPostFn: func(ctx context.Context, post *model.Post) error {
			if post.Status != model.PostStatusPublished {
				t.Fatalf("expected default published status, got %q", post.Status)
			}
			if post.Title != "trimmed" {
				t.Fatalf("expected trimmed title, got %q", post.Title)
			}
			post.ID = "p-1"
			return nil
		},
	}

	svc := NewPostService(postRepo, memberRepo, &stubCommentService{})

	id, err := svc.CreatePost(context.Background(), "m-1", CreatePostRequest{
		Title:   "  trimmed  ",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "p-1" {
		t.Fatalf("expected created id p-1, got %q", id)
	}
}

func TestCreatePost_AuthorNotFound(t *testing.T) {
	svc := NewPostService(&mockPostRepo{}, &mockMemberRepo{}, &stubCommentService{})

	_, err := svc.CreatePost(context.Background(), "m-missing", CreatePostRequest{
		Title:   "t",
		Content: "c",
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

/*
	GET POST
*/

func TestGetPost_BumpsViewCountAndEmbedsComments(t *testing.T) {
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, Title: "t", ViewCount: 7, Author: model.Member{Nickname: "author"}}, nil
		},
	}
	comments := &stubCommentService{
		getByPostFn: func(ctx context.Context, postID string, page int) (Slice[CommentView], error) {
			if page != 0 {
				t.Fatalf("detail view must embed the first comment page, got page %d", page)
			}
			return Slice[CommentView]{
				Content: []CommentView{{ID: "c-1", PostID: postID}},
				HasNext: true,
			}, nil
		},
	}

	svc := NewPostService(postRepo, &mockMemberRepo{}, comments)

	detail, err := svc.GetPost(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postRepo.incrementCalls != 1 {
		t.Fatalf("expected one view count increment, got %d", postRepo.incrementCalls)
	}
	if detail.ViewCount != 8 {
		t.Fatalf("expected view count 8 after the bump, got %d", detail.ViewCount)
	}
	if len(detail.Comments.Content) != 1 || !detail.Comments.HasNext {
		t.Fatalf("unexpected embedded comments: %+v", detail.Comments)
	}
	if detail.AuthorNickname != "author" {
		t.Fatalf("expected resolved author nickname, got %q", detail.AuthorNickname)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	svc := NewPostService(&mockPostRepo{}, &mockMemberRepo{}, &stubCommentService{})

	_, err := svc.GetPost(context.Background(), "p-missing")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

/*
	LIST POSTS
*/

func TestListPosts_HasNextAndPageWindow(t *testing.T) {
	var gotLimit, gotOffset int
	postRepo := &mockPostRepo{
		findPublishedFn: func(ctx context.Context, limit, offset int) ([]*model.Post, error) {
			gotLimit, gotOffset = limit, offset
			posts := make([]*model.Post, 11)
			for i := range posts {
				posts[i] = &model.Post{ID: fmt.Sprintf("p-%d", i)}
			}
			return posts, nil
		},
	}

	svc := NewPostService(postRepo, &mockMemberRepo{}, &stubCommentService{})

	page, err := svc.ListPosts(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 11 || gotOffset != 10 {
		t.Fatalf("expected limit 11 offset 10, got limit %d offset %d", gotLimit, gotOffset)
	}
	if len(page.Content) != 10 || !page.HasNext {
		t.Fatalf("expected a full page with next, got %d items hasNext=%v", len(page.Content), page.HasNext)
	}
}

/*
	UPDATE / DELETE POST
*/

func TestUpdatePost_NotOwner(t *testing.T) {
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorID: "m-owner"}, nil
		},
	}

	svc := NewPostService(postRepo, &mockMemberRepo{}, &stubCommentService{})

	err := svc.UpdatePost(context.Background(), "m-other", "p-1", UpdatePostRequest{Title: "t", Content: "c"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	deleted := false
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorID: "m-owner"}, nil
		},
		deletePostFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	svc := NewPostService(postRepo, &mockMemberRepo{}, &stubCommentService{})

	if err := svc.DeletePost(context.Background(), "m-other", "p-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if deleted {
		t.Fatalf("non-owner must not delete the post")
	}

	if err := svc.DeletePost(context.Background(), "m-owner", "p-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatalf("owner delete must reach the repository")
	}
}
