package repository

import (
	"context"

	"plog/internal/model"

	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id string) (*model.Member, error)
	// FindByIDs loads a set of members in one query, keyed by id. Missing
	// ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Member, error)
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	FindByNickname(ctx context.Context, nickname string) (*model.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	Update(ctx context.Context, member *model.Member) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

func (r *memberRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Member, error) {
	byID := make(map[string]*model.Member, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var members []*model.Member
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID, nil
}

func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

func (r *memberRepository) FindByNickname(ctx context.Context, nickname string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).Where("nickname = ?", nickname).Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) Update(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
