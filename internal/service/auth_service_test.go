package service

import (
	"context"
	"errors"
	"testing"

	"plog/internal/model"
	"plog/internal/util"
)

/*
	SIGN UP
*/

func TestSignUp_OK(t *testing.T) {
	memberRepo := &mockMemberRepo{
		createMemberFn: func(ctx context.Context, member *model.Member) error {
			if member.Password == "password123" {
				t.Fatalf("password must be hashed before storage")
			}
			member.ID = "m-1"
			return nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	id, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "a@b.com",
		Password: "password123",
		Nickname: "nick",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "m-1" {
		t.Fatalf("expected member id m-1, got %q", id)
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	memberRepo := &mockMemberRepo{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "a@b.com",
		Password: "password123",
		Nickname: "nick",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignUp_NicknameTaken(t *testing.T) {
	memberRepo := &mockMemberRepo{
		existsByNicknameFn: func(ctx context.Context, nickname string) (bool, error) {
			return true, nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "a@b.com",
		Password: "password123",
		Nickname: "nick",
	})
	if !errors.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
}

/*
	SIGN IN
*/

func TestSignIn_OK(t *testing.T) {
	hash, err := util.HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memberRepo := &mockMemberRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Member, error) {
			return &model.Member{ID: "m-1", Email: email, Password: hash, Nickname: "nick"}, nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	result, err := svc.SignIn(context.Background(), SignInRequest{
		Email:    "a@b.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MemberID != "m-1" || result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("unexpected auth result: %+v", result)
	}

	claims, err := util.ValidateToken(result.AccessToken, "secret")
	if err != nil {
		t.Fatalf("issued access token must validate: %v", err)
	}
	if claims.MemberID != "m-1" {
		t.Fatalf("expected member id m-1 in claims, got %q", claims.MemberID)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	hash, err := util.HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memberRepo := &mockMemberRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Member, error) {
			return &model.Member{ID: "m-1", Email: email, Password: hash}, nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	_, err = svc.SignIn(context.Background(), SignInRequest{
		Email:    "a@b.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockMemberRepo{}, nil, nil, "secret")

	_, err := svc.SignIn(context.Background(), SignInRequest{
		Email:    "nobody@b.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

/*
	REISSUE
*/

func TestReissue_RejectsInvalidToken(t *testing.T) {
	svc := NewAuthService(&mockMemberRepo{}, nil, nil, "secret")

	if _, err := svc.Reissue(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty input, got %v", err)
	}
	if _, err := svc.Reissue(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage input, got %v", err)
	}
}

func TestReissue_RotatesTokens(t *testing.T) {
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{ID: id, Email: "a@b.com", Nickname: "nick"}, nil
		},
	}

	svc := NewAuthService(memberRepo, nil, nil, "secret")

	refresh, err := util.GenerateRefreshToken("m-1", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Reissue(context.Background(), refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MemberID != "m-1" || result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("unexpected auth result: %+v", result)
	}
}
