package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// TryGrant inserts the completion record for (userID, activityID) in a single
// statement. The composite unique index on the pair is the authority: a
// concurrent duplicate insert loses at the database and comes back as
// ErrAlreadyCompleted. There is deliberately no read-before-write here.
func (r *CompletionRepository) TryGrant(ctx context.Context, userID, activityID uint, correct bool) (*model.Completion, error) {
	completion := &model.Completion{
		UserID:     userID,
		ActivityID: activityID,
		GrantedAt:  time.Now(),
		Correct:    correct,
	}

	if err := r.DB.WithContext(ctx).Create(completion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyCompleted
		}
		return nil, err
	}

	return completion, nil
}

// Exists is the fast pre-check used before prompting a question. It is a
// latency optimization only; TryGrant remains the source of truth.
func (r *CompletionRepository) Exists(ctx context.Context, userID, activityID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Completion{}).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Count(&count).Error
	return count > 0, err
}

func (r *CompletionRepository) ListForUser(ctx context.Context, userID uint) ([]model.Completion, error) {
	var completions []model.Completion
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		Find(&completions).Error
	return completions, err
}

func (r *CompletionRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Completion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListRecent feeds the admin live view, newest first.
func (r *CompletionRepository) ListRecent(ctx context.Context, limit int) ([]model.Completion, error) {
	var completions []model.Completion
	err := r.DB.WithContext(ctx).
		Order("granted_at DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}

type UserCompletionCount struct {
	UserID uint  `json:"userId"`
	Count  int64 `json:"count"`
}

// CountsByUser returns per-user completion totals, most completions first.
func (r *CompletionRepository) CountsByUser(ctx context.Context) ([]UserCompletionCount, error) {
	var counts []UserCompletionCount
	err := r.DB.WithContext(ctx).Model(&model.Completion{}).
		Select("user_id, COUNT(*) as count").
		Group("user_id").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
