package service

import (
	"context"
	"errors"
	"time"

	"plog/internal/model"
	"plog/internal/repository"
)

type MemberService interface {
	GetMemberByID(ctx context.Context, id string) (*MemberInfo, error)
	GetMemberByNickname(ctx context.Context, nickname string) (*MemberInfo, error)
	UpdateNickname(ctx context.Context, memberID, nickname string) (*MemberInfo, error)
}

// MemberInfo is the public view of a member; credentials never leave the
// service layer.
type MemberInfo struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetMemberByID(ctx context.Context, id string) (*MemberInfo, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return toMemberInfo(member), nil
}

func (s *memberService) GetMemberByNickname(ctx context.Context, nickname string) (*MemberInfo, error) {
	member, err := s.memberRepo.FindByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return toMemberInfo(member), nil
}

func (s *memberService) UpdateNickname(ctx context.Context, memberID, nickname string) (*MemberInfo, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if member.Nickname != nickname {
		taken, err := s.memberRepo.ExistsByNickname(ctx, nickname)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNicknameTaken
		}
		member.Nickname = nickname
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return nil, err
		}
	}

	return toMemberInfo(member), nil
}

func toMemberInfo(member *model.Member) *MemberInfo {
	return &MemberInfo{
		ID:              member.ID,
		Email:           member.Email,
		Nickname:        member.Nickname,
		ProfileImageURL: member.ProfileImageURL,
		CreatedAt:       member.CreatedAt,
	}
}
