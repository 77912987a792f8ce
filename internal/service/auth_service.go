package service

import (
	"context"
	"errors"
	"fmt"

	"plog/internal/model"
	"plog/internal/repository"
	"plog/internal/util"
)

const refreshTokenKeyPrefix = "auth:refresh:"

type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (string, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResult, error)
	// Reissue rotates both tokens when the presented refresh token matches
	// the recorded session.
	Reissue(ctx context.Context, refreshToken string) (*AuthResult, error)
	SignOut(ctx context.Context, memberID string) error
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nickname string `json:"nickname" binding:"required,nickname"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	MemberID     string `json:"member_id"`
	Nickname     string `json:"nickname"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authService struct {
	memberRepo repository.MemberRepository
	redis      *util.RedisClient
	rabbitMQ   *util.RabbitMQClient
	jwtSecret  string
}

func NewAuthService(
	memberRepo repository.MemberRepository,
	redis *util.RedisClient,
	rabbitMQ *util.RabbitMQClient,
	jwtSecret string,
) AuthService {
	return &authService{
		memberRepo: memberRepo,
		redis:      redis,
		rabbitMQ:   rabbitMQ,
		jwtSecret:  jwtSecret,
	}
}

// SignUp registers a new member and queues a welcome email. Email delivery
// is best-effort: a dead queue never blocks registration.
func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	taken, err := s.memberRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrEmailTaken
	}

	taken, err = s.memberRepo.ExistsByNickname(ctx, req.Nickname)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrNicknameTaken
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	member := &model.Member{
		Email:    req.Email,
		Password: hashed,
		Nickname: req.Nickname,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return "", err
	}

	if s.rabbitMQ != nil {
		msg := util.EmailMessage{
			To:      member.Email,
			Subject: "Welcome to plog",
			Body:    fmt.Sprintf("Hi %s, your plog account is ready.", member.Nickname),
		}
		if err := s.rabbitMQ.PublishEmail(msg); err != nil && util.Sugar != nil {
			util.Sugar.Warnf("Failed to queue welcome email for %s: %v", member.Email, err)
		}
	}

	return member.ID, nil
}

func (s *authService) SignIn(ctx context.Context, req SignInRequest) (*AuthResult, error) {
	member, err := s.memberRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.CheckPassword(member.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(member)
}

func (s *authService) Reissue(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// The presented token must be the one recorded at sign-in; rotation
	// invalidates older copies.
	if s.redis != nil {
		stored, err := s.redis.Get(refreshTokenKeyPrefix + claims.MemberID)
		if err != nil || stored != refreshToken {
			return nil, ErrInvalidToken
		}
	}

	member, err := s.memberRepo.FindByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(member)
}

func (s *authService) SignOut(ctx context.Context, memberID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Delete(refreshTokenKeyPrefix + memberID)
}

func (s *authService) issueTokens(member *model.Member) (*AuthResult, error) {
	accessToken, err := util.GenerateAccessToken(member.ID, member.Email, member.Nickname, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := util.GenerateRefreshToken(member.ID, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(refreshTokenKeyPrefix+member.ID, refreshToken, util.RefreshTokenTTL); err != nil {
			return nil, err
		}
	}

	return &AuthResult{
		MemberID:     member.ID,
		Nickname:     member.Nickname,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
