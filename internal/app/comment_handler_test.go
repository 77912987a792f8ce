package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plog/internal/service"

	"github.com/gin-gonic/gin"
)

/*
	MOCK SERVICE
*/

type mockCommentService struct {
	createFn     func(ctx context.Context, authorID, postID, content string, parentID *string) (string, error)
	getByPostFn  func(ctx context.Context, postID string, page int) (service.Slice[service.CommentView], error)
	getRepliesFn func(ctx context.Context, commentID string, page int) (service.Slice[service.ReplyView], error)
	updateFn     func(ctx context.Context, commentID, content string) error
	deleteFn     func(ctx context.Context, commentID string) error
}

func (m *mockCommentService) CreateComment(ctx context.Context, authorID, postID, content string, parentID *string) (string, error) {
	return m.createFn(ctx, authorID, postID, content, parentID)
}

func (m *mockCommentService) GetCommentsByPost(ctx context.Context, postID string, page int) (service.Slice[service.CommentView], error) {
	return m.getByPostFn(ctx, postID, page)
}

func (m *mockCommentService) GetRepliesByComment(ctx context.Context, commentID string, page int) (service.Slice[service.ReplyView], error) {
	return m.getRepliesFn(ctx, commentID, page)
}

func (m *mockCommentService) UpdateComment(ctx context.Context, commentID, content string) error {
	return m.updateFn(ctx, commentID, content)
}

func (m *mockCommentService) DeleteComment(ctx context.Context, commentID string) error {
	return m.deleteFn(ctx, commentID)
}

/*
	HELPERS
*/

func setupCommentRouter(svc service.CommentService, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set("memberID", "m-1")
			c.Next()
		})
	}

	h := NewCommentHandler(svc)
	r.POST("/posts/:id/comments", h.CreateComment)
	r.GET("/posts/:id/comments", h.GetCommentsByPost)
	r.GET("/comments/:id/replies", h.GetReplies)
	r.PUT("/comments/:id", h.UpdateComment)
	r.DELETE("/comments/:id", h.DeleteComment)

	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewBuffer(data)
}

/*
	CREATE
*/

func TestCreateComment_Created(t *testing.T) {
	svc := &mockCommentService{
		createFn: func(ctx context.Context, authorID, postID, content string, parentID *string) (string, error) {
			if authorID != "m-1" || postID != "p-1" || content != "hello" {
				t.Fatalf("unexpected args: %s %s %s", authorID, postID, content)
			}
			return "c-1", nil
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/posts/p-1/comments", jsonBody(t, CreateCommentRequest{Content: "hello"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateComment_Unauthenticated(t *testing.T) {
	r := setupCommentRouter(&mockCommentService{}, false)

	req := httptest.NewRequest(http.MethodPost, "/posts/p-1/comments", jsonBody(t, CreateCommentRequest{Content: "hello"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateComment_MissingContent(t *testing.T) {
	r := setupCommentRouter(&mockCommentService{}, true)

	req := httptest.NewRequest(http.MethodPost, "/posts/p-1/comments", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateComment_PostNotFound(t *testing.T) {
	svc := &mockCommentService{
		createFn: func(ctx context.Context, authorID, postID, content string, parentID *string) (string, error) {
			return "", service.ErrPostNotFound
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/posts/p-missing/comments", jsonBody(t, CreateCommentRequest{Content: "hello"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateComment_ParentPostMismatch(t *testing.T) {
	parentID := "c-other"
	svc := &mockCommentService{
		createFn: func(ctx context.Context, authorID, postID, content string, pid *string) (string, error) {
			if pid == nil || *pid != parentID {
				t.Fatalf("parent id not forwarded")
			}
			return "", service.ErrParentPostMismatch
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/posts/p-1/comments", jsonBody(t, CreateCommentRequest{Content: "hello", ParentID: &parentID}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

/*
	GET COMMENTS
*/

func TestGetCommentsByPost_OK(t *testing.T) {
	svc := &mockCommentService{
		getByPostFn: func(ctx context.Context, postID string, page int) (service.Slice[service.CommentView], error) {
			if page != 2 {
				t.Fatalf("expected page 2, got %d", page)
			}
			return service.Slice[service.CommentView]{
				Content: []service.CommentView{{ID: "c-1", PostID: postID}},
				HasNext: true,
			}, nil
		},
	}
	r := setupCommentRouter(svc, false)

	req := httptest.NewRequest(http.MethodGet, "/posts/p-1/comments?page=2", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			Comments service.Slice[service.CommentView] `json:"comments"`
			Page     int                                `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Data.Comments.HasNext || len(body.Data.Comments.Content) != 1 {
		t.Fatalf("unexpected page payload: %+v", body.Data.Comments)
	}
	if body.Data.Page != 2 {
		t.Fatalf("expected echoed page 2, got %d", body.Data.Page)
	}
}

func TestGetCommentsByPost_InvalidPageDefaultsToZero(t *testing.T) {
	svc := &mockCommentService{
		getByPostFn: func(ctx context.Context, postID string, page int) (service.Slice[service.CommentView], error) {
			if page != 0 {
				t.Fatalf("expected page 0, got %d", page)
			}
			return service.Slice[service.CommentView]{Content: []service.CommentView{}}, nil
		},
	}
	r := setupCommentRouter(svc, false)

	req := httptest.NewRequest(http.MethodGet, "/posts/p-1/comments?page=abc", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

/*
	GET REPLIES
*/

func TestGetReplies_CommentNotFound(t *testing.T) {
	svc := &mockCommentService{
		getRepliesFn: func(ctx context.Context, commentID string, page int) (service.Slice[service.ReplyView], error) {
			return service.Slice[service.ReplyView]{}, service.ErrCommentNotFound
		},
	}
	r := setupCommentRouter(svc, false)

	req := httptest.NewRequest(http.MethodGet, "/comments/c-missing/replies", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

/*
	UPDATE
*/

func TestUpdateComment_OKResponse(t *testing.T) {
	svc := &mockCommentService{
		updateFn: func(ctx context.Context, commentID, content string) error {
			if commentID != "c-1" || content != "edited" {
				t.Fatalf("unexpected args: %s %s", commentID, content)
			}
			return nil
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodPut, "/comments/c-1", jsonBody(t, UpdateCommentRequest{Content: "edited"}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

/*
	DELETE
*/

func TestDeleteComment_OKResponse(t *testing.T) {
	called := false
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, commentID string) error {
			called = true
			return nil
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodDelete, "/comments/c-1", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("delete must reach the service")
	}
}

func TestDeleteComment_NotFoundResponse(t *testing.T) {
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, commentID string) error {
			return service.ErrCommentNotFound
		},
	}
	r := setupCommentRouter(svc, true)

	req := httptest.NewRequest(http.MethodDelete, "/comments/c-missing", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
